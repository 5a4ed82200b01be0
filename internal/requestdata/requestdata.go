package requestdata

import "context"

type ctxKey struct{}

var requestDataKey ctxKey

// RequestData carries the verified caller identity through a request.
// Username is the stable identity claim: a session binds to the username
// chosen at registration, never to the mutable profile record id.
type RequestData struct {
	TokenString string
	Username    string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}
