package services

import (
	"context"
	"imahima/domain"
	"imahima/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGraphService_Connect_Is_Visible_Both_Ways(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, "Aki", "Bo")
	ctx := context.Background()

	// When Aki and Bo connect
	created, err := f.graph.Connect(ctx, domain.ConnectCommand{A: "Aki", B: "Bo"})

	// Then each one observes the other
	req.NoError(err)
	req.True(created)
	observers, err := f.graph.VisibleObserversOf(ctx, "Aki")
	req.NoError(err)
	req.Equal([]domain.MemberID{"Bo"}, observers)
	observers, err = f.graph.VisibleObserversOf(ctx, "Bo")
	req.NoError(err)
	req.Equal([]domain.MemberID{"Aki"}, observers)
}

func TestGraphService_Visibility_Is_Asymmetric(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, "Aki", "Bo")
	ctx := context.Background()

	_, err := f.graph.Connect(ctx, domain.ConnectCommand{A: "Aki", B: "Bo"})
	req.NoError(err)

	// When Aki hides itself from Bo
	edge, err := f.graph.SetVisibility(ctx, domain.SetVisibilityCommand{Subject: "Aki", Observer: "Bo", Visible: false})
	req.NoError(err)
	req.False(edge.Visible)

	// Then Bo no longer observes Aki
	observers, err := f.graph.VisibleObserversOf(ctx, "Aki")
	req.NoError(err)
	req.Empty(observers)

	// And Aki still observes Bo
	observers, err = f.graph.VisibleObserversOf(ctx, "Bo")
	req.NoError(err)
	req.Equal([]domain.MemberID{"Aki"}, observers)

	// And the hidden edge is still listed as a connection
	connections, err := f.graph.ConnectionsOf(ctx, "Aki")
	req.NoError(err)
	req.Len(connections, 1)

	subjects, err := f.graph.VisibleSubjectsFor(ctx, "Bo")
	req.NoError(err)
	req.Empty(subjects)
	subjects, err = f.graph.VisibleSubjectsFor(ctx, "Aki")
	req.NoError(err)
	req.Equal([]domain.MemberID{"Bo"}, subjects)
}

func TestGraphService_Connect_Twice_Keeps_Toggled_Flag(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, "Aki", "Bo")
	ctx := context.Background()

	_, err := f.graph.Connect(ctx, domain.ConnectCommand{A: "Aki", B: "Bo"})
	req.NoError(err)
	_, err = f.graph.SetVisibility(ctx, domain.SetVisibilityCommand{Subject: "Aki", Observer: "Bo", Visible: false})
	req.NoError(err)

	// When connected again, from the other side
	created, err := f.graph.Connect(ctx, domain.ConnectCommand{A: "Bo", B: "Aki"})

	// Then nothing was created and the flag survived
	req.NoError(err)
	req.False(created)
	observers, err := f.graph.VisibleObserversOf(ctx, "Aki")
	req.NoError(err)
	req.Empty(observers)
}

func TestGraphService_Errors(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, "Aki", "Bo")
	ctx := context.Background()

	_, err := f.graph.Connect(ctx, domain.ConnectCommand{A: "Aki", B: "Aki"})
	req.ErrorIs(err, errors.ErrSelfConnection)

	_, err = f.graph.Connect(ctx, domain.ConnectCommand{A: "Aki", B: "ghost"})
	req.ErrorIs(err, errors.ErrMemberNotFound)

	_, err = f.graph.Connect(ctx, domain.ConnectCommand{A: "Aki"})
	req.ErrorIs(err, errors.ErrInvalidCommand)

	_, err = f.graph.SetVisibility(ctx, domain.SetVisibilityCommand{Subject: "Aki", Observer: "Bo", Visible: false})
	req.ErrorIs(err, errors.ErrEdgeNotFound)

	_, err = f.graph.VisibleObserversOf(ctx, "ghost")
	req.ErrorIs(err, errors.ErrMemberNotFound)

	req.ErrorIs(f.graph.Connected(ctx, "Aki", "Bo"), errors.ErrEdgeNotFound)
}
