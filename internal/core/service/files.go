package service

import (
	"net/url"
	"strings"
)

const (
	filesDownloadPath = "/api/files/download"
	filesPreviewPath  = "/api/files/preview"
)

// DownloadURL resolves a stored attachment path to its download URL.
func (c *Client) DownloadURL(path string) string {
	return c.fileURL(filesDownloadPath, path)
}

// PreviewURL resolves a stored attachment path to its inline preview URL.
func (c *Client) PreviewURL(path string) string {
	return c.fileURL(filesPreviewPath, path)
}

func (c *Client) fileURL(endpoint, path string) string {
	return c.url(endpoint) + "?" + url.Values{"path": {NormalizeFilePath(path)}}.Encode()
}

// NormalizeFilePath gives path exactly one leading slash and forward
// separators.
func NormalizeFilePath(path string) string {
	path = strings.ReplaceAll(strings.TrimSpace(path), `\`, "/")
	return "/" + strings.TrimLeft(path, "/")
}
