package client

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// MaxImageSize is the client-side ceiling for blog image uploads.
const MaxImageSize = 5 * 1024 * 1024

// ErrImageTooLarge is returned before any request is made for oversized
// images; its text is shown to the user verbatim.
var ErrImageTooLarge = errors.New("Image size should be less than 5MB")

// ErrNotAnImage is returned when the picked file is not an image.
var ErrNotAnImage = errors.New("file must be an image")

// UploadImage sends a blog image to the upload endpoint and returns an
// absolute URL for it. Size and MIME type are checked before any request. A
// failed upload degrades to a placeholder URL keyed by the filename instead
// of an error; the post can still be published.
func (c *Client) UploadImage(ctx context.Context, fileName, mimeType string, content []byte) (string, error) {
	if int64(len(content)) > MaxImageSize {
		return "", ErrImageTooLarge
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", ErrNotAnImage
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return placeholderURL(fileName), nil
	}
	if _, err := part.Write(content); err != nil {
		return placeholderURL(fileName), nil
	}
	if err := writer.Close(); err != nil {
		return placeholderURL(fileName), nil
	}

	var res struct {
		URL     string `json:"url"`
		FullURL string `json:"full_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/upload", &buf, writer.FormDataContentType(), &res); err != nil {
		return placeholderURL(fileName), nil
	}

	if res.FullURL != "" {
		return res.FullURL, nil
	}
	if res.URL != "" {
		return c.origin() + res.URL, nil
	}
	return placeholderURL(fileName), nil
}

// origin strips any path from the base URL, so relative upload URLs resolve
// against the server root rather than the API prefix.
func (c *Client) origin() string {
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Scheme == "" {
		return c.baseURL
	}
	return u.Scheme + "://" + u.Host
}

func placeholderURL(fileName string) string {
	return "https://via.placeholder.com/800x400?text=" + url.QueryEscape(fileName)
}
