package export

import (
	"bytes"
	"context"

	"github.com/solutions/rekrut-cube/internal/common/utils"

	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/storage"
	"github.com/qiniu/x/xlog"
)

// ArchiveUploader 把导出的压缩包上传到Kodo留存一份，下载响应之外的备份。
type ArchiveUploader struct {
	storageConf *utils.QiniuStorageConfig
	keyPair     utils.QiniuKeyPair
	xl          *xlog.Logger
}

func NewArchiveUploader(storageConf *utils.QiniuStorageConfig, keyPair utils.QiniuKeyPair, xl *xlog.Logger) *ArchiveUploader {
	if xl == nil {
		xl = xlog.New("rekrut-cube-uploader")
	}
	return &ArchiveUploader{
		storageConf: storageConf,
		keyPair:     keyPair,
		xl:          xl,
	}
}

// Enabled 配置齐全时才开启留存。
func (u *ArchiveUploader) Enabled() bool {
	return u.storageConf != nil && u.storageConf.Enabled && u.storageConf.Bucket != ""
}

// Upload 上传压缩包，返回可下载URL。失败由调用方决定是否忽略。
func (u *ArchiveUploader) Upload(xl *xlog.Logger, data []byte, fileKey string) (string, error) {
	if xl == nil {
		xl = u.xl
	}
	mac := qbox.NewMac(u.keyPair.AccessKey, u.keyPair.SecretKey)
	putPolicy := storage.PutPolicy{
		Scope: u.storageConf.Bucket,
	}
	upToken := putPolicy.UploadToken(mac)
	cfg := storage.Config{}
	// 是否使用https域名
	cfg.UseHTTPS = true
	// 上传是否使用CDN上传加速
	cfg.UseCdnDomains = false
	formUploader := storage.NewFormUploader(&cfg)
	ret := storage.PutRet{}
	err := formUploader.Put(context.Background(), &ret, upToken, fileKey, bytes.NewReader(data), int64(len(data)), nil)
	if err != nil {
		xl.Errorf("archive uploading failed err:%v", err)
		return "", err
	}
	fileURL := u.storageConf.URLPrefix + "/" + fileKey
	xl.Infof("archive uploaded to %s", fileURL)
	return fileURL, nil
}
