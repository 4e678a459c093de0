package analysis

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"skinscan/models"
)

const (
	// redToneMargin is how far red must exceed both green and blue.
	redToneMargin = 20
	// darkSpotBrightness is the brightness below which a pixel counts as dark.
	darkSpotBrightness = 80
	// midToneUpper bounds the mid-tone band [darkSpotBrightness, midToneUpper).
	midToneUpper = 180

	// rows between cancellation checks
	cancelCheckRows = 256
)

type accumulator struct {
	totalBrightness float64
	redTones        int
	darkSpots       int
	midTones        int
}

func (a *accumulator) add(r, g, b int) {
	brightness := float64(r+g+b) / 3
	a.totalBrightness += brightness

	if r > g+redToneMargin && r > b+redToneMargin {
		a.redTones++
	}
	if brightness < darkSpotBrightness {
		a.darkSpots++
	}
	if brightness >= darkSpotBrightness && brightness < midToneUpper {
		a.midTones++
	}
}

func (a *accumulator) statistics(pixels int) models.PixelStatistics {
	n := float64(pixels)
	return models.PixelStatistics{
		AverageBrightness:  a.totalBrightness / n,
		RedTonePercentage:  float64(a.redTones) / n * 100,
		DarkSpotPercentage: float64(a.darkSpots) / n * 100,
		MidTonePercentage:  float64(a.midTones) / n * 100,
		PixelCount:         pixels,
	}
}

// ComputeStatistics scans every pixel of img once. Channels are read as
// 8-bit, non-premultiplied values.
func ComputeStatistics(ctx context.Context, img image.Image) (models.PixelStatistics, error) {
	if img == nil {
		return models.PixelStatistics{}, fmt.Errorf("%w: nil image", ErrImageDecode)
	}
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels <= 0 {
		return models.PixelStatistics{}, fmt.Errorf("%w: image has no pixels", ErrImageDecode)
	}

	var acc accumulator
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if (y-bounds.Min.Y)%cancelCheckRows == 0 {
			if err := ctx.Err(); err != nil {
				return models.PixelStatistics{}, err
			}
		}
		scanRow(&acc, img, bounds, y)
	}

	return acc.statistics(pixels), nil
}

func scanRow(acc *accumulator, img image.Image, bounds image.Rectangle, y int) {
	if nrgba, ok := img.(*image.NRGBA); ok {
		i := nrgba.PixOffset(bounds.Min.X, y)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			acc.add(int(nrgba.Pix[i]), int(nrgba.Pix[i+1]), int(nrgba.Pix[i+2]))
			i += 4
		}
		return
	}

	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		acc.add(int(c.R), int(c.G), int(c.B))
	}
}
