package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucaLucareli/assessor/internal/core"
	"github.com/LucaLucareli/assessor/internal/session"
)

type fakeAI struct {
	reply    string
	err      error
	received []core.Message
}

func (f *fakeAI) Chat(_ context.Context, history []core.Message, _ []core.Tool) (core.Message, error) {
	f.received = history
	if f.err != nil {
		return core.Message{}, f.err
	}
	return core.Message{Role: core.RoleAssistant, Content: f.reply}, nil
}

func TestRouteSeedsSystemContextAndHistory(t *testing.T) {
	ai := &fakeAI{reply: "ROUTE=finance\nPERGUNTA_ORIGINAL=quanto gastei?\nPERSONA=direto\nCLARIFY="}
	sessions := session.NewStore()
	sessions.Append("s1", core.RoleUser, "oi")
	sessions.Append("s1", core.RoleAssistant, "olá!")
	sessions.Append("s1", core.RoleUser, "quanto gastei?")

	r := New(ai, sessions, 30)
	d, err := r.Route(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, core.DirectiveRoute, d.Kind)
	assert.Equal(t, core.RouteFinance, d.Route)

	require.Len(t, ai.received, 4)
	assert.Equal(t, core.RoleSystem, ai.received[0].Role)
	assert.Contains(t, ai.received[0].Content, "finance")
	assert.Equal(t, "quanto gastei?", ai.received[3].Content)
}

func TestRouteHistoryWindow(t *testing.T) {
	ai := &fakeAI{reply: "oi!"}
	sessions := session.NewStore()
	for i := 0; i < 10; i++ {
		sessions.Append("s1", core.RoleUser, "msg")
	}

	r := New(ai, sessions, 4)
	_, err := r.Route(context.Background(), "s1")
	require.NoError(t, err)

	// system prompt + four windowed turns
	assert.Len(t, ai.received, 5)
}

func TestRouteCollaboratorFailure(t *testing.T) {
	ai := &fakeAI{err: errors.New("boom")}
	r := New(ai, session.NewStore(), 30)

	_, err := r.Route(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrClassification)
}

func TestRouteCancelledContextIsNotClassification(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ai := &fakeAI{err: context.Canceled}
	r := New(ai, session.NewStore(), 30)

	_, err := r.Route(ctx, "s1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrClassification)
}

func TestRouteUnknownToken(t *testing.T) {
	ai := &fakeAI{reply: "ROUTE=weather\nPERGUNTA_ORIGINAL=x\nPERSONA=y\nCLARIFY="}
	r := New(ai, session.NewStore(), 30)

	_, err := r.Route(context.Background(), "s1")
	var re *RoutingError
	assert.True(t, errors.As(err, &re))
}
