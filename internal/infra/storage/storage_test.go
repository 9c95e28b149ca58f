package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/turnos/internal/logging"
)

type mockS3 struct {
	puts    []*s3.PutObjectInput
	bodies  [][]byte
	deletes []string
	err     error
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	body, _ := io.ReadAll(in.Body)
	m.puts = append(m.puts, in)
	m.bodies = append(m.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.deletes = append(m.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessLogo_ResizesAndReencodes(t *testing.T) {
	logo, err := ProcessLogo(pngBytes(t, 1024, 512))
	require.NoError(t, err)
	assert.Equal(t, "image/webp", logo.ContentType)
	assert.Equal(t, "webp", logo.Ext)

	cfg, err := webp.DecodeConfig(bytes.NewReader(logo.Data))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 256, cfg.Height)
}

func TestProcessLogo_SmallImageKeepsSize(t *testing.T) {
	logo, err := ProcessLogo(pngBytes(t, 100, 80))
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(logo.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 80, cfg.Height)
}

func TestProcessLogo_SVGPassthrough(t *testing.T) {
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"></svg>`)
	logo, err := ProcessLogo(svg)
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", logo.ContentType)
	assert.Equal(t, svg, logo.Data)
}

func TestProcessLogo_Rejects(t *testing.T) {
	_, err := ProcessLogo(nil)
	assert.ErrorIs(t, err, ErrLogoEmpty)

	_, err = ProcessLogo(bytes.Repeat([]byte{0}, MaxLogoBytes+1))
	assert.ErrorIs(t, err, ErrLogoTooLarge)

	_, err = ProcessLogo([]byte("GIF89a......"))
	assert.ErrorIs(t, err, ErrLogoFormat)

	_, err = ProcessLogo([]byte("plain text, not an image"))
	assert.ErrorIs(t, err, ErrLogoFormat)
}

func TestLogoKey(t *testing.T) {
	k := LogoKey(7, "webp")
	assert.True(t, strings.HasPrefix(k, "logos/7/"))
	assert.True(t, strings.HasSuffix(k, ".webp"))
	assert.NotEqual(t, k, LogoKey(7, "webp"))
}

func TestStoreUpload(t *testing.T) {
	m := &mockS3{}
	s := NewStore(m, "assets", "https://cdn.example.com/", logging.Discard())

	url, err := s.Upload(context.Background(), "logos/1/a.webp", []byte("data"), "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/logos/1/a.webp", url)

	require.Len(t, m.puts, 1)
	assert.Equal(t, "assets", aws.ToString(m.puts[0].Bucket))
	assert.Equal(t, "image/webp", aws.ToString(m.puts[0].ContentType))
	assert.Equal(t, []byte("data"), m.bodies[0])

	require.NoError(t, s.Delete(context.Background(), "logos/1/old.webp"))
	assert.Equal(t, []string{"logos/1/old.webp"}, m.deletes)
}

func TestStoreUploadErrors(t *testing.T) {
	s := NewStore(&mockS3{err: errors.New("boom")}, "assets", "", logging.Discard())
	_, err := s.Upload(context.Background(), "k", []byte("x"), "image/png")
	assert.Error(t, err)

	disabled := NewStore(nil, "", "", logging.Discard())
	_, err = disabled.Upload(context.Background(), "k", []byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestPublicURLDefaultsToBucketHost(t *testing.T) {
	s := NewStore(&mockS3{}, "assets", "", logging.Discard())
	assert.Equal(t, "https://assets.s3.amazonaws.com/logos/1/a.svg", s.PublicURL("/logos/1/a.svg"))
}
