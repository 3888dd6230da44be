// Copyright 2020 Qiniu Cloud (qiniu.com)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package utils

import (
	"log"
	"os"

	qconfig "github.com/qiniu/x/config"
)

var (
	DefaultConf Config
)

func InitConf(configFilePath string) {
	err := qconfig.LoadFile(&DefaultConf, configFilePath)
	if err != nil {
		log.Fatalf("failed to load config file, error %v", err)
	}
}

// MongoConfig mongo 数据库配置。
type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

// QiniuKeyPair 七牛APIaccess key/secret key配置。
type QiniuKeyPair struct {
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// QiniuStorageConfig 七牛对象存储服务配置。归档备份用。
type QiniuStorageConfig struct {
	// Enabled 为true时，批量导出的压缩包会额外上传一份到bucket留存。
	Enabled bool `json:"enabled"`
	// Bucket 上传的文件所在的七牛对象存储bucket。
	Bucket string `json:"bucket"`
	// URLPrefix 上传的文件的下载URL前缀，一般为该bucket对应的默认域名。
	URLPrefix string `json:"url_prefix"`
}

// RongCloudIMConfig 融云IM服务配置。
type RongCloudIMConfig struct {
	AppKey    string `json:"app_key"`
	AppSecret string `json:"app_secret"`
}

// IMConfig IM服务配置。provider为test时使用mock实现。
type IMConfig struct {
	Provider string `json:"provider"`
	// SystemUserID 系统用户ID。分配通知以该用户身份发出。
	SystemUserID string             `json:"system_user_id"`
	RongCloud    *RongCloudIMConfig `json:"rongcloud"`
}

// ExportConfig 批量导出PDF的执行参数。
type ExportConfig struct {
	// BatchSize 每批处理的报名者数量。
	BatchSize int `json:"batch_size"`
	// CompressionLevel zip压缩等级，0-9。
	CompressionLevel int `json:"compression_level"`
	// MaxRetriesPerBatch 每批的重试次数上限。
	MaxRetriesPerBatch int `json:"max_retries_per_batch"`
	// TimeBudgetMs 整次导出的时间预算，超出估算时自动截断。
	TimeBudgetMs int64 `json:"time_budget_ms"`
	// PerItemEstimateMs 单份报告的渲染耗时估算。
	PerItemEstimateMs int64 `json:"per_item_estimate_ms"`
	// MaxSinglePass 不截断时允许一次性处理的报名者数量上限。
	MaxSinglePass int `json:"max_single_pass"`
}

// AdminAccount 管理员账号，配置文件声明。
type AdminAccount struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	DisplayName  string `json:"display_name"`
}

// SessionTaskConfig 面试场次的定时维护配置。
type SessionTaskConfig struct {
	// StaleAfterHour 超过该小时数仍处于SCHEDULED的场次被取消。
	StaleAfterHour int `json:"stale_after_hour"`
}

// Config 后端配置。
type Config struct {
	// debug等级，为1时输出info/warn/error日志，为0除以上外还输出debug日志
	DebugLevel int    `json:"debug_level"`
	ListenAddr string `json:"listen_addr"`
	// JwtKey 签发登录token用的密钥。
	JwtKey string `json:"jwt_key"`
	// TokenExpireHour 登录token有效时长。
	TokenExpireHour int                 `json:"token_expire_hour"`
	Admins          []AdminAccount      `json:"admins"`
	Mongo           *MongoConfig        `json:"mongo"`
	QiniuKeyPair    QiniuKeyPair        `json:"qiniu_key_pair"`
	Storage         *QiniuStorageConfig `json:"storage"`
	IM              *IMConfig           `json:"im"`
	Export          *ExportConfig       `json:"export"`
	SessionTask     *SessionTaskConfig  `json:"session_task"`
}

// NewSample 返回样例配置。
func NewSample() *Config {
	return &Config{
		DebugLevel:      0,
		ListenAddr:      ":8080",
		JwtKey:          os.Getenv("REKRUT_JWT_KEY"),
		TokenExpireHour: 24,
		Mongo: &MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "rekrut_cube_test",
		},
		IM: &IMConfig{
			Provider: "test",
			RongCloud: &RongCloudIMConfig{
				AppKey:    os.Getenv("RONGCLOUD_APP_KEY"),
				AppSecret: os.Getenv("RONGCLOUD_APP_SECRET"),
			},
		},
		Export: &ExportConfig{
			BatchSize:          8,
			CompressionLevel:   6,
			MaxRetriesPerBatch: 1,
			TimeBudgetMs:       50000,
			PerItemEstimateMs:  800,
			MaxSinglePass:      60,
		},
		SessionTask: &SessionTaskConfig{
			StaleAfterHour: 72,
		},
	}
}
