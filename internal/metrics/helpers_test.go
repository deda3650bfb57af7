package metrics

import "image"

func imageStub(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}
