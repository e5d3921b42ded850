package domain

// MediaSource 媒体引用的来源
type MediaSource string

const (
	// MediaSourceUpload 本次会话新上传、尚未随商品提交的文件
	MediaSourceUpload MediaSource = "upload"
	// MediaSourcePersisted 后端已持久化的文件（URL引用）
	MediaSourcePersisted MediaSource = "persisted"
)

// MediaKind 媒体类型标签
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// MediaRef 指向一个媒体文件：新上传文件以上传ID引用，
// 已持久化文件以URL引用。同一列表内两种来源可以混存。
type MediaRef struct {
	Source   MediaSource `json:"source"`
	UploadID string      `json:"upload_id,omitempty"`
	URL      string      `json:"url,omitempty"`
}

// UploadedRef 构造新上传文件的引用
func UploadedRef(uploadID string) MediaRef {
	return MediaRef{Source: MediaSourceUpload, UploadID: uploadID}
}

// PersistedRef 构造已持久化文件的引用
func PersistedRef(url string) MediaRef {
	return MediaRef{Source: MediaSourcePersisted, URL: url}
}

// IsPersisted 引用是否指向已持久化文件
func (r MediaRef) IsPersisted() bool {
	return r.Source == MediaSourcePersisted
}

// CombinedMediaItem 合并媒体列表中的一项。
// 列表本身是投影产物，SourceIndex 记录该项在原类型化列表中的下标。
type CombinedMediaItem struct {
	Ref         MediaRef  `json:"ref"`
	Kind        MediaKind `json:"kind"`
	SourceIndex int       `json:"source_index"`
}
