package export

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/solutions/rekrut-cube/internal/common/utils"
	model "github.com/solutions/rekrut-cube/internal/protodef/model"

	"github.com/qiniu/x/xlog"
)

// 未配置时的导出缺省参数。
const (
	DefaultBatchSize          = 8
	DefaultCompressionLevel   = flate.DefaultCompression
	DefaultMaxRetriesPerBatch = 1
	DefaultTimeBudgetMs       = 50000
	DefaultPerItemEstimateMs  = 800
	DefaultMaxSinglePass      = 60
)

// DataLoader 取一个报名者的报告数据。
type DataLoader interface {
	LoadReportData(xl *xlog.Logger, applicant model.ApplicantDo) (*ReportData, error)
}

// Exporter 批量导出引擎：逐个渲染、打包zip，按批推进并跟踪耗时预算，
// 避免被宿主的请求时长上限杀在半途。
type Exporter struct {
	renderer           Renderer
	loader             DataLoader
	batchSize          int
	compressionLevel   int
	maxRetriesPerBatch int
	timeBudget         time.Duration
	perItemEstimate    time.Duration
	maxSinglePass      int
	now                func() time.Time
	xl                 *xlog.Logger
}

// ArchiveResult 一次导出的产物与计数。
type ArchiveResult struct {
	Data      []byte
	Total     int
	Processed int
	Elapsed   time.Duration
}

func NewExporter(conf *utils.ExportConfig, renderer Renderer, loader DataLoader, xl *xlog.Logger) *Exporter {
	if xl == nil {
		xl = xlog.New("rekrut-cube-export")
	}
	e := &Exporter{
		renderer:           renderer,
		loader:             loader,
		batchSize:          DefaultBatchSize,
		compressionLevel:   DefaultCompressionLevel,
		maxRetriesPerBatch: DefaultMaxRetriesPerBatch,
		timeBudget:         DefaultTimeBudgetMs * time.Millisecond,
		perItemEstimate:    DefaultPerItemEstimateMs * time.Millisecond,
		maxSinglePass:      DefaultMaxSinglePass,
		now:                time.Now,
		xl:                 xl,
	}
	if conf != nil {
		if conf.BatchSize > 0 {
			e.batchSize = conf.BatchSize
		}
		if conf.CompressionLevel >= flate.NoCompression && conf.CompressionLevel <= flate.BestCompression {
			e.compressionLevel = conf.CompressionLevel
		}
		if conf.MaxRetriesPerBatch >= 0 {
			e.maxRetriesPerBatch = conf.MaxRetriesPerBatch
		}
		if conf.TimeBudgetMs > 0 {
			e.timeBudget = time.Duration(conf.TimeBudgetMs) * time.Millisecond
		}
		if conf.PerItemEstimateMs > 0 {
			e.perItemEstimate = time.Duration(conf.PerItemEstimateMs) * time.Millisecond
		}
		if conf.MaxSinglePass > 0 {
			e.maxSinglePass = conf.MaxSinglePass
		}
	}
	return e
}

// Estimate 无副作用的预估：总量、预计耗时、批数、建议批大小。
// 调用方据此决定全量还是截断，不用把活干两遍。
func (e *Exporter) Estimate(total int) model.ExportEstimate {
	batchCount := 0
	if total > 0 {
		batchCount = (total + e.batchSize - 1) / e.batchSize
	}
	return model.ExportEstimate{
		TotalAplikasi:        total,
		EstimasiWaktuMs:      int64(total) * e.perItemEstimate.Milliseconds(),
		JumlahBatch:          batchCount,
		RekomendasiBatchSize: e.batchSize,
	}
}

// AutoLimit 预算除以单份耗时估算得到的数量上限。
func (e *Exporter) AutoLimit() int {
	limit := int(e.timeBudget / e.perItemEstimate)
	if limit < 1 {
		limit = 1
	}
	return limit
}

// EffectiveLimit 选择执行策略：预估在预算内且数量不超过单趟上限时全量处理，
// 否则自动截断到AutoLimit。requestedLimit>0时再取两者较小值。
func (e *Exporter) EffectiveLimit(total, requestedLimit int) int {
	estimate := e.Estimate(total)
	limit := total
	if time.Duration(estimate.EstimasiWaktuMs)*time.Millisecond > e.timeBudget || total > e.maxSinglePass {
		auto := e.AutoLimit()
		if auto < limit {
			limit = auto
		}
	}
	if requestedLimit > 0 && requestedLimit < limit {
		limit = requestedLimit
	}
	return limit
}

// BuildArchive 渲染全部报名者并打包单个zip。单份渲染失败只记日志并跳过，
// 不拖垮整批；整体归档失败才返回error。
func (e *Exporter) BuildArchive(xl *xlog.Logger, applicants []model.ApplicantDo) (*ArchiveResult, error) {
	if xl == nil {
		xl = e.xl
	}
	start := e.now()
	buf := bytes.Buffer{}
	zipWriter := zip.NewWriter(&buf)
	zipWriter.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, e.compressionLevel)
	})

	processed := 0
	total := len(applicants)
	for batchStart := 0; batchStart < total; batchStart += e.batchSize {
		if e.now().Sub(start) > e.timeBudget {
			xl.Infof("time budget exhausted after %d of %d applicants, truncating export", processed, total)
			break
		}
		batchEnd := batchStart + e.batchSize
		if batchEnd > total {
			batchEnd = total
		}
		pending := applicants[batchStart:batchEnd]
		for attempt := 0; len(pending) > 0 && attempt <= e.maxRetriesPerBatch; attempt++ {
			failed := []model.ApplicantDo{}
			for _, applicant := range pending {
				document, err := e.renderOne(xl, applicant)
				if err != nil {
					xl.Errorf("failed to render report for applicant %s (attempt %d), error %v", applicant.ID, attempt+1, err)
					failed = append(failed, applicant)
					continue
				}
				entryName := reportFileName(applicant)
				entry, err := zipWriter.Create(entryName)
				if err != nil {
					zipWriter.Close()
					return nil, err
				}
				if _, err := entry.Write(document); err != nil {
					zipWriter.Close()
					return nil, err
				}
				processed++
			}
			pending = failed
		}
		if len(pending) > 0 {
			xl.Infof("batch starting at %d left %d applicants unrendered after retries", batchStart, len(pending))
		}
	}

	if err := zipWriter.Close(); err != nil {
		xl.Errorf("failed to finalize archive, error %v", err)
		return nil, err
	}
	elapsed := e.now().Sub(start)
	xl.Infof("export archive built: %d/%d applicants in %v, %d bytes", processed, total, elapsed, buf.Len())
	return &ArchiveResult{
		Data:      buf.Bytes(),
		Total:     total,
		Processed: processed,
		Elapsed:   elapsed,
	}, nil
}

func (e *Exporter) renderOne(xl *xlog.Logger, applicant model.ApplicantDo) ([]byte, error) {
	data, err := e.loader.LoadReportData(xl, applicant)
	if err != nil {
		return nil, err
	}
	return e.renderer.Render(xl, data)
}

// ArchiveFileName 响应附件名，按日期戳固定格式。
func ArchiveFileName(t time.Time) string {
	return fmt.Sprintf("laporan-wawancara-%s.zip", t.Format("2006-01-02"))
}

func reportFileName(applicant model.ApplicantDo) string {
	name := strings.TrimSpace(applicant.FullName)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, name)
	if name == "" {
		name = applicant.ID
	}
	if applicant.Nim != "" {
		return fmt.Sprintf("%s-%s.pdf", applicant.Nim, name)
	}
	return fmt.Sprintf("%s.pdf", name)
}
