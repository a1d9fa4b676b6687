package tmdb

// Image size tokens understood by the image CDN.
const (
	SizeW200     = "w200"
	SizeW300     = "w300"
	SizeW500     = "w500"
	SizeW1280    = "w1280"
	SizeOriginal = "original"
)

// ImageURL resolves a relative image path. Empty and "null" paths yield "".
func (c *Client) ImageURL(path, size string) string {
	if path == "" || path == "null" {
		return ""
	}
	if size == "" {
		size = SizeW500
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return c.imageBaseURL + "/" + size + path
}

func (c *Client) PosterURL(path string) string {
	return c.ImageURL(path, SizeW500)
}

func (c *Client) BackdropURL(path string) string {
	return c.ImageURL(path, SizeOriginal)
}
