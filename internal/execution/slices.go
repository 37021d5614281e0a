package execution

import (
	"fmt"
	"math"
)

// quantityScale 把数量换算成 1e-8 的整数单位，切片运算全部在整数域完成。
const quantityScale = 1e8

// SliceQuantities 将总量切成 slices 份等量分片，末片吸收整除余数，
// 使所有分片之和（按 1e-8 单位）恰好等于请求总量，不产生欠量或超量。
func SliceQuantities(quantity float64, slices int) ([]float64, error) {
	if slices <= 0 {
		return nil, fmt.Errorf("execution: 分片数必须为正，当前为 %d", slices)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("execution: 数量必须为正，当前为 %s", formatQty(quantity))
	}

	units := int64(math.Round(quantity * quantityScale))
	base := units / int64(slices)
	if base <= 0 {
		return nil, fmt.Errorf("execution: 数量 %s 不足以拆成 %d 片", formatQty(quantity), slices)
	}

	out := make([]float64, slices)
	for i := 0; i < slices-1; i++ {
		out[i] = float64(base) / quantityScale
	}
	out[slices-1] = float64(units-base*int64(slices-1)) / quantityScale

	return out, nil
}

func formatQty(v float64) string {
	return fmt.Sprintf("%.8f", v)
}
