package ports

import "context"

type RemoteFetchPort interface {
	FetchText(ctx context.Context, url string) (string, error)
}
