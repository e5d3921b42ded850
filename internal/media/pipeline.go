// Package media 实现上传文件的预处理管线：
// 字节嗅探校验、图片等比缩放与重编码，视频原样透传。
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedMedia 文件既不是可解码图片也不是已知视频格式
var ErrUnsupportedMedia = errors.New("unsupported media type")

const jpegQuality = 85

// Processed 预处理后的上传文件
type Processed struct {
	Filename    string
	ContentType string
	Data        []byte
	IsImage     bool
}

// Pipeline 上传预处理管线
type Pipeline struct {
	maxImageDimension int
}

// NewPipeline 创建预处理管线，maxDim为图片长边上限（像素）
func NewPipeline(maxDim int) *Pipeline {
	return &Pipeline{maxImageDimension: maxDim}
}

// Process 校验并预处理一个上传文件。
// 内容类型以字节嗅探结果为准，客户端声明仅作参考；
// 超过长边上限的图片等比缩放后重新编码。
func (p *Pipeline) Process(filename string, data []byte) (*Processed, error) {
	mime := mimetype.Detect(data)

	switch {
	case strings.HasPrefix(mime.String(), "image/"):
		return p.processImage(filename, data, mime.String())
	case strings.HasPrefix(mime.String(), "video/"):
		return &Processed{
			Filename:    filename,
			ContentType: mime.String(),
			Data:        data,
			IsImage:     false,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, mime.String())
	}
}

func (p *Pipeline) processImage(filename string, data []byte, mime string) (*Processed, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable image", ErrUnsupportedMedia)
	}

	bounds := img.Bounds()
	resized := false
	if p.maxImageDimension > 0 && (bounds.Dx() > p.maxImageDimension || bounds.Dy() > p.maxImageDimension) {
		img = imaging.Fit(img, p.maxImageDimension, p.maxImageDimension, imaging.Lanczos)
		resized = true
	}

	// 未缩放的文件保留原始字节，避免无谓的画质损失
	if !resized {
		return &Processed{
			Filename:    filename,
			ContentType: mime,
			Data:        data,
			IsImage:     true,
		}, nil
	}

	encoded, contentType, err := encodeImage(img, mime)
	if err != nil {
		return nil, err
	}
	return &Processed{
		Filename:    filename,
		ContentType: contentType,
		Data:        encoded,
		IsImage:     true,
	}, nil
}

// encodeImage 按原始格式重编码；PNG保留透明通道，其余统一输出JPEG
func encodeImage(img image.Image, mime string) ([]byte, string, error) {
	var buf bytes.Buffer
	if mime == "image/png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
