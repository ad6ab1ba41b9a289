package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV 读取以导联名为表头、每行一个采样时刻的 CSV。
// 表头中名为 time/t/seconds 的列会被忽略，并用于推算采样率。
func ReadCSV(r io.Reader) (*Recording, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoLeads
	}
	if err != nil {
		return nil, fmt.Errorf("读取 CSV 表头失败: %w", err)
	}

	timeCol := -1
	rec := &Recording{}
	var cols []int
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch strings.ToLower(name) {
		case "time", "t", "seconds", "sec":
			timeCol = i
			continue
		}
		cols = append(cols, i)
		rec.Names = append(rec.Names, name)
	}
	rec.Leads = make([][]float64, len(cols))

	var times []float64
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取 CSV 第 %d 行失败: %w", line, err)
		}
		for j, col := range cols {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("CSV 第 %d 行 %s 列: %w", line, rec.Names[j], err)
			}
			rec.Leads[j] = append(rec.Leads[j], v)
		}
		if timeCol >= 0 && len(times) < 2 {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[timeCol]), 64)
			if err != nil {
				return nil, fmt.Errorf("CSV 第 %d 行时间列: %w", line, err)
			}
			times = append(times, v)
		}
	}
	if len(times) == 2 && times[1] > times[0] {
		rec.SampleRate = 1 / (times[1] - times[0])
	}
	if err := rec.validate(); err != nil {
		return nil, err
	}
	if rec.Samples() == 0 {
		return nil, ErrNoLeads
	}
	return rec, nil
}
