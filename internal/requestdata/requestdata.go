package requestdata

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKeyType struct{}

var requestDataKey = requestDataKeyType{}

// RequestData carries the authenticated identity for the current
// request. It replaces the ambient "current user" of session-based
// designs: the auth middleware sets it once, services read it at
// their boundary and pass plain usernames from there on.
type RequestData struct {
	TokenString  string
	RefreshToken string
	UserID       uuid.UUID
	Username     string
	AccountType  string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}
