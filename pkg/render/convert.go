package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	fserr "github.com/matzehuels/flowschem/pkg/errors"
)

const rsvgConvertBin = "rsvg-convert"

// ConvertAvailable reports whether rsvg-convert is on the PATH.
func ConvertAvailable() bool {
	_, err := exec.LookPath(rsvgConvertBin)
	return err == nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return ConvertContext(context.Background(), svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return ConvertContext(context.Background(), svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// ConvertContext runs rsvg-convert with the output format and extra
// arguments, feeding it svg on stdin. A missing binary is an
// ErrCodeUnsupported error.
func ConvertContext(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !ConvertAvailable() {
		return nil, fserr.New(fserr.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, rsvgConvertBin, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fserr.Wrap(fserr.ErrCodeInternal, err, "rsvg-convert: %s", strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
