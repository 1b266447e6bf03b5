package client

import (
	"bytes"
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadImage_RejectsOversizedBeforeRequest(t *testing.T) {
	var requests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})
	c, _ := newTestClient(t, mux)

	sixMB := bytes.Repeat([]byte{0xff}, 6*1024*1024)
	_, err := c.UploadImage(context.Background(), "huge.png", "image/png", sixMB)
	require.ErrorIs(t, err, ErrImageTooLarge)
	require.EqualError(t, err, "Image size should be less than 5MB")
	require.Equal(t, int32(0), requests.Load())
}

func TestUploadImage_RejectsNonImage(t *testing.T) {
	var requests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})
	c, _ := newTestClient(t, mux)

	_, err := c.UploadImage(context.Background(), "script.sh", "text/x-shellscript", []byte("#!/bin/sh"))
	require.ErrorIs(t, err, ErrNotAnImage)
	require.Equal(t, int32(0), requests.Load())
}

func TestUploadImage_PrefersFullURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusCreated, map[string]string{
			"url":      "/uploads/abc.png",
			"full_url": "https://cdn.example.com/uploads/abc.png",
		})
	})
	c, _ := newTestClient(t, mux)

	url, err := c.UploadImage(context.Background(), "photo.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/uploads/abc.png", url)
}

func TestUploadImage_FallsBackToOriginPrefixedURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusCreated, map[string]string{
			"url": "/uploads/abc.png",
		})
	})
	c, _ := newTestClient(t, mux)

	url, err := c.UploadImage(context.Background(), "photo.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, c.BaseURL()+"/uploads/abc.png", url)
}

func TestUploadImage_FailureDegradesToPlaceholder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c, _ := newTestClient(t, mux)

	url, err := c.UploadImage(context.Background(), "team photo.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err, "a failed upload degrades, it does not block publishing")
	require.Contains(t, url, "via.placeholder.com")
	require.Contains(t, url, "team+photo.png")
}
