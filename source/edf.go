package source

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/OpenPSG/edf"
	"golang.org/x/text/encoding/charmap"
)

const (
	edfMainHeader   = 256
	edfSignalHeader = 256
	edfDigitalMin   = -32768
	edfDigitalMax   = 32767
	// 单个数据记录最大字节数，见 EDF 规范建议。
	edfMaxRecordBytes = 61440
	edfReadChunk      = 4096
)

// edfHeader 是从文件头直接解析出的字段，edf.Reader 未导出这些信息。
type edfHeader struct {
	patient        string
	recording      string
	start          time.Time
	headerBytes    int
	records        int
	recordDuration float64 // 秒
	labels         []string
	dimensions     []string
	samples        []int // 每个数据记录中的采样数
}

// ReadEDF 读取 EDF/EDF+ 文件中的全部信号。所有信号的采样率必须相同。
func ReadEDF(r io.ReadSeeker) (*Recording, error) {
	hdr, err := peekEDFHeader(r)
	if err != nil {
		return nil, err
	}
	if len(hdr.labels) == 0 {
		return nil, ErrNoLeads
	}
	if hdr.recordDuration <= 0 {
		return nil, fmt.Errorf("EDF 数据记录时长无效: %g", hdr.recordDuration)
	}
	for i, n := range hdr.samples {
		if n != hdr.samples[0] {
			return nil, fmt.Errorf("信号 %q 的采样率与 %q 不同（%d ≠ %d 每记录）",
				hdr.labels[i], hdr.labels[0], n, hdr.samples[0])
		}
	}
	if err := hdr.checkSize(r); err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("回到 EDF 文件头失败: %w", err)
	}

	reader, err := edf.Open(r)
	if err != nil {
		return nil, err
	}

	rec := &Recording{
		Names:      hdr.labels,
		SampleRate: float64(hdr.samples[0]) / hdr.recordDuration,
	}
	for i := range hdr.labels {
		lead, err := readSignal(reader, i, hdr.records*hdr.samples[i])
		if err != nil {
			return nil, fmt.Errorf("读取信号 %q 失败: %w", hdr.labels[i], err)
		}
		if isMicroVolt(hdr.dimensions[i]) {
			for j := range lead {
				lead[j] /= 1000
			}
		}
		rec.Leads = append(rec.Leads, lead)
	}

	rec.setMeta("patient", hdr.patient)
	rec.setMeta("recording", hdr.recording)
	rec.setMeta("start", hdr.start)
	rec.setMeta("duration", rec.Duration())
	return rec, nil
}

// isMicroVolt 判断物理单位是否为微伏。µ 可能是 U+00B5 或希腊字母 U+03BC。
func isMicroVolt(dim string) bool {
	switch strings.ToLower(dim) {
	case "uv", "µv", "μv":
		return true
	}
	return false
}

// readSignal 读出单个信号。expected 只用于预分配，已由 checkSize 限定在文件大小以内。
func readSignal(reader *edf.Reader, index, expected int) ([]float64, error) {
	sr, err := reader.Signal(index)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, expected)
	buf := make([]float64, edfReadChunk)
	for {
		n, err := sr.Read(buf)
		out = append(out, buf[:n]...)
		// 只有裸 io.EOF 表示记录读完，包装过的 EOF 是文件被截断。
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func peekEDFHeader(r io.ReadSeeker) (*edfHeader, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	b := make([]byte, edfMainHeader)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("读取 EDF 文件头失败: %w", err)
	}

	hdr := &edfHeader{
		patient:   decodeLatin1(b[8:88]),
		recording: decodeLatin1(b[88:168]),
	}
	if start, err := time.Parse("02.01.06 15.04.05", field(b[168:176])+" "+field(b[176:184])); err == nil {
		hdr.start = start
	}

	var err error
	if hdr.headerBytes, err = strconv.Atoi(field(b[184:192])); err != nil {
		return nil, fmt.Errorf("EDF 头部字节数无效: %w", err)
	}
	if hdr.records, err = strconv.Atoi(field(b[236:244])); err != nil {
		return nil, fmt.Errorf("EDF 数据记录数无效: %w", err)
	}
	if hdr.records < 0 {
		return nil, fmt.Errorf("EDF 数据记录数未知或无效: %d", hdr.records)
	}
	if hdr.recordDuration, err = strconv.ParseFloat(field(b[244:252]), 64); err != nil {
		return nil, fmt.Errorf("EDF 数据记录时长无效: %w", err)
	}
	count, err := strconv.Atoi(field(b[252:256]))
	if err != nil || count < 0 {
		return nil, fmt.Errorf("EDF 信号数无效: %q", field(b[252:256]))
	}
	if want := edfMainHeader + count*edfSignalHeader; hdr.headerBytes != want {
		return nil, fmt.Errorf("EDF 头部字节数 %d 与信号数 %d 不符（应为 %d）", hdr.headerBytes, count, want)
	}

	sig := make([]byte, count*edfSignalHeader)
	if _, err := io.ReadFull(r, sig); err != nil {
		return nil, fmt.Errorf("读取 EDF 信号头失败: %w", err)
	}
	// 信号头按字段分组：先是全部信号的 label，再是全部信号的 transducer，依此类推。
	offset := 0
	next := func(width int) []string {
		out := make([]string, count)
		for i := range out {
			out[i] = decodeLatin1(sig[offset : offset+width])
			offset += width
		}
		return out
	}
	hdr.labels = next(16)
	next(80) // transducer
	hdr.dimensions = next(8)
	next(8 * 4) // physical/digital min/max，由 edf.Reader 负责换算
	next(80)    // prefiltering
	for i, s := range next(8) {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("信号 %q 的采样数无效: %q", hdr.labels[i], s)
		}
		hdr.samples = append(hdr.samples, n)
	}
	return hdr, nil
}

// checkSize 确认头部声明的数据记录都在文件里，避免按损坏的头部分配内存。
func (h *edfHeader) checkSize(r io.Seeker) error {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("获取 EDF 文件大小失败: %w", err)
	}
	recordBytes := int64(0)
	for _, n := range h.samples {
		recordBytes += int64(n) * 2
		if recordBytes > size {
			return fmt.Errorf("EDF 数据记录长度 %d 字节超过文件大小 %d", recordBytes, size)
		}
	}
	data := size - int64(h.headerBytes)
	if recordBytes == 0 || data < 0 || int64(h.records) > data/recordBytes {
		return fmt.Errorf("EDF 文件被截断: 声明 %d 个记录（每个 %d 字节），数据区只有 %d 字节",
			h.records, recordBytes, max(data, 0))
	}
	return nil
}

func field(b []byte) string { return strings.TrimSpace(string(b)) }

// decodeLatin1 解码头部文本。规范只允许 ASCII，但不少设备写入 Latin-1。
func decodeLatin1(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return field(b)
	}
	return field(s)
}

// EDFOptions 控制 WriteEDF 写出的文件头。
type EDFOptions struct {
	PatientID   string
	RecordingID string
	StartTime   time.Time
}

// WriteEDF 以 1 秒为一个数据记录写出 EDF 文件，物理单位 mV。
// 采样率必须为正整数；不足一个记录的尾部以 0 补齐。
func WriteEDF(w io.WriteSeeker, rec *Recording, opts EDFOptions) error {
	if err := rec.validate(); err != nil {
		return err
	}
	rate := int(rec.SampleRate)
	if rate <= 0 || float64(rate) != rec.SampleRate {
		return fmt.Errorf("EDF 需要正整数采样率，实际 %g", rec.SampleRate)
	}
	if len(rec.Leads)*rate*2 > edfMaxRecordBytes {
		return fmt.Errorf("数据记录过大: %d 个导联 × %d Hz", len(rec.Leads), rate)
	}
	start := opts.StartTime
	if start.IsZero() {
		start = time.Now()
	}

	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          opts.PatientID,
		RecordingID:        opts.RecordingID,
		StartTime:          start,
		DataRecordDuration: time.Second,
		SignalCount:        len(rec.Leads),
	}
	for i, lead := range rec.Leads {
		lo, hi := physicalRange(lead)
		hdr.Signals = append(hdr.Signals, edf.SignalHeader{
			Label:             rec.Names[i],
			TransducerType:    "AgAgCl electrode",
			PhysicalDimension: "mV",
			PhysicalMin:       lo,
			PhysicalMax:       hi,
			DigitalMin:        edfDigitalMin,
			DigitalMax:        edfDigitalMax,
			SamplesPerRecord:  rate,
		})
	}

	ew, err := edf.Create(w, hdr)
	if err != nil {
		return err
	}
	records := (rec.Samples() + rate - 1) / rate
	for k := range records {
		block := make([][]float64, len(rec.Leads))
		for i, lead := range rec.Leads {
			block[i] = make([]float64, rate)
			if lo := k * rate; lo < len(lead) {
				copy(block[i], lead[lo:min(lo+rate, len(lead))])
			}
		}
		if err := ew.WriteRecord(block); err != nil {
			return fmt.Errorf("写入第 %d 个数据记录失败: %w", k+1, err)
		}
	}
	return ew.Close()
}

// physicalRange 返回写入头部的物理量范围。头部只保留两位小数，因此向外取整。
func physicalRange(lead []float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, v := range lead {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	lo = math.Floor(lo*100)/100 - 0.01
	hi = math.Ceil(hi*100)/100 + 0.01
	return lo, hi
}
