package client

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextProjectName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []Project{
			{ID: 1, Name: "Project 1"},
			{ID: 2, Name: "Project 2"},
		})
	})
	c, _ := newTestClient(t, mux)

	require.Equal(t, "Project 3", c.NextProjectName(context.Background()))
}

func TestNextProjectName_FallbackOnError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c, _ := newTestClient(t, mux)

	require.Equal(t, "Project 1", c.NextProjectName(context.Background()))
}

func TestProposalView_LatestIsFirstElement(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects/1/proposals", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []Proposal{
			{ID: 9, ProjectID: 1, Content: "# v3", Version: 3},
			{ID: 5, ProjectID: 1, Content: "# v2", Version: 2},
			{ID: 2, ProjectID: 1, Content: "# v1", Version: 1},
		})
	})
	c, _ := newTestClient(t, mux)

	view := NewProposalView(c, 1)
	latest, err := view.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, latest.Version)
	require.Equal(t, latest, view.Latest())
}

func TestProposalView_EmptyListIsNotAnError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects/1/proposals", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []Proposal{})
	})
	c, _ := newTestClient(t, mux)

	view := NewProposalView(c, 1)
	latest, err := view.Refresh(context.Background())
	require.NoError(t, err)
	require.Nil(t, latest)
	require.Nil(t, view.Latest())
}

func TestProposalView_GuardDropsDuplicateFetch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects/1/proposals", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		writeJSON(t, w, http.StatusOK, []Proposal{{ID: 1, Version: 1}})
	})
	c, _ := newTestClient(t, mux)
	view := NewProposalView(c, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = view.Refresh(context.Background())
	}()

	<-started
	_, err := view.Refresh(context.Background())
	require.ErrorIs(t, err, ErrFetchInFlight)

	close(release)
	wg.Wait()
}

func TestProposalView_CanceledFetchAppliesNothing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects/1/proposals", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	c, _ := newTestClient(t, mux)
	view := NewProposalView(c, 1)

	ctx, cancel := context.WithCancel(context.Background())
	go cancel()

	_, err := view.Refresh(ctx)
	require.Error(t, err)
	require.Nil(t, view.Latest(), "a canceled fetch must not mutate state")
}
