package storage

import "context"

// Uploader 把一个远程图片地址转存到图床并返回托管后的地址。
// 调用是同步单次的，失败由调用方决定如何中止。
type Uploader interface {
	// Upload 转存 sourceURL 指向的图片，返回托管地址
	Upload(ctx context.Context, sourceURL string) (string, error)
	// IsHosted 判断地址是否已由当前图床托管，已托管的地址不再转存
	IsHosted(url string) bool
}
