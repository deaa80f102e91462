package ctxutil

import "context"

type requestDataKey struct{}

// RequestData is the authenticated caller as established by the auth middleware.
// UserID is the identity provider's subject, kept opaque.
type RequestData struct {
	UserID      string
	Username    string
	ImageURL    string
	TokenString string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the caller id or "" when unauthenticated.
func UserID(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.UserID
	}
	return ""
}
