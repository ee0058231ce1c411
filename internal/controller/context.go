package controller

import (
	"context"

	"github.com/scrumpoker/server/internal/service/room"
)

type contextKey int

const (
	sessionCtxKey contextKey = iota
	writerCtxKey
)

func (c controller) withSession(ctx context.Context, sess *room.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, sess)
}

func (c controller) getSessionFromCtx(ctx context.Context) *room.Session {
	sess, ok := ctx.Value(sessionCtxKey).(*room.Session)
	if !ok {
		return nil
	}

	return sess
}

func (c controller) withWriter(ctx context.Context, w *connWriter) context.Context {
	return context.WithValue(ctx, writerCtxKey, w)
}

func (c controller) getWriterFromCtx(ctx context.Context) *connWriter {
	w, ok := ctx.Value(writerCtxKey).(*connWriter)
	if !ok {
		return nil
	}

	return w
}
