package catalog

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
)

// 按扩展名分类媒体文件的集合
var (
	imageExtensions = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	}
	videoExtensions = map[string]bool{
		".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
	}
)

// ProjectMedia 把变体的两个类型化媒体列表投影为单一合并列表：
// 先 images（按原顺序打 image 标签）后 videos，顺序固定。
// 合并列表第0项决定“主媒体”标注，投影本身不存储任何顺序属性。
func ProjectMedia(v *domain.Variant) []domain.CombinedMediaItem {
	combined := make([]domain.CombinedMediaItem, 0, len(v.Images)+len(v.Videos))
	for i, ref := range v.Images {
		combined = append(combined, domain.CombinedMediaItem{Ref: ref, Kind: domain.MediaKindImage, SourceIndex: i})
	}
	for i, ref := range v.Videos {
		combined = append(combined, domain.CombinedMediaItem{Ref: ref, Kind: domain.MediaKindVideo, SourceIndex: i})
	}
	return combined
}

// MoveMediaItem 对合并列表执行位置移动：
// 取出 from 处元素后重新插入 to 处（标准 splice 语义，
// 与拖拽排序的直觉一致）。from == to 时为空操作。
func MoveMediaItem(list []domain.CombinedMediaItem, from, to int) ([]domain.CombinedMediaItem, error) {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	if from == to {
		return list, nil
	}

	result := make([]domain.CombinedMediaItem, 0, len(list))
	result = append(result, list[:from]...)
	result = append(result, list[from+1:]...)

	moved := list[from]
	result = append(result[:to], append([]domain.CombinedMediaItem{moved}, result[to:]...)...)
	return result, nil
}

// RebuildMedia 将重排后的合并列表按标签拆回两个类型化列表，
// 各自保持标签内的相对顺序。这是显式重排后 images/videos
// 顺序变化的唯一途径。
func RebuildMedia(list []domain.CombinedMediaItem) (images, videos []domain.MediaRef) {
	images = make([]domain.MediaRef, 0, len(list))
	videos = make([]domain.MediaRef, 0, len(list))
	for _, item := range list {
		switch item.Kind {
		case domain.MediaKindImage:
			images = append(images, item.Ref)
		case domain.MediaKindVideo:
			videos = append(videos, item.Ref)
		}
	}
	return images, videos
}

// RemoveMediaAt 按合并列表下标删除媒体：
// 通过标签定位原类型化列表并从中删除（投影是派生的，不直接改）。
func RemoveMediaAt(v *domain.Variant, combinedIndex int) error {
	combined := ProjectMedia(v)
	if combinedIndex < 0 || combinedIndex >= len(combined) {
		return ErrIndexOutOfRange
	}

	item := combined[combinedIndex]
	switch item.Kind {
	case domain.MediaKindImage:
		v.Images = append(v.Images[:item.SourceIndex], v.Images[item.SourceIndex+1:]...)
	case domain.MediaKindVideo:
		v.Videos = append(v.Videos[:item.SourceIndex], v.Videos[item.SourceIndex+1:]...)
	}
	return nil
}

// ApplyMediaOrder 执行一次移动并将结果写回变体的类型化列表
func ApplyMediaOrder(v *domain.Variant, from, to int) error {
	moved, err := MoveMediaItem(ProjectMedia(v), from, to)
	if err != nil {
		return err
	}
	v.Images, v.Videos = RebuildMedia(moved)
	return nil
}

// ClassifyMedia 判定上传文件的媒体类型。
// 优先级：声明的Content-Type前缀 → 文件扩展名 → 字节嗅探。
// 三者都无法判定时返回 ok=false，由调用方按策略丢弃或报错。
func ClassifyMedia(filename, declaredType string, data []byte) (domain.MediaKind, bool) {
	if strings.HasPrefix(declaredType, "image/") {
		return domain.MediaKindImage, true
	}
	if strings.HasPrefix(declaredType, "video/") {
		return domain.MediaKindVideo, true
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if imageExtensions[ext] {
		return domain.MediaKindImage, true
	}
	if videoExtensions[ext] {
		return domain.MediaKindVideo, true
	}

	if len(data) > 0 {
		mt := mimetype.Detect(data)
		if strings.HasPrefix(mt.String(), "image/") {
			return domain.MediaKindImage, true
		}
		if strings.HasPrefix(mt.String(), "video/") {
			return domain.MediaKindVideo, true
		}
	}

	return "", false
}

// AppendMedia 将媒体引用追加到变体对应的类型化列表末尾
func AppendMedia(v *domain.Variant, kind domain.MediaKind, ref domain.MediaRef) {
	switch kind {
	case domain.MediaKindImage:
		v.Images = append(v.Images, ref)
	case domain.MediaKindVideo:
		v.Videos = append(v.Videos, ref)
	}
}
