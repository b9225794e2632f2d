package models

// Raster is the rasterized image of a rendered document
type Raster struct {
	Data   []byte  // JPEG encoded
	Width  int     // pixels
	Height int     // pixels
	Scale  float64 // device pixels per CSS pixel
}

// DocumentMeta carries PDF document properties
type DocumentMeta struct {
	Title   string
	Subject string
	Author  string
	Creator string
}
