package stats

import "sync"

const (
	maxLutMult int = 2000
	maxMult    int = 10000
)

// WinBuckets
//
// 用來快速定位派彩 -> 分布位置 O(1)
//
//   - 贏倍區間: [0,0], (0,1), [1,2), [2,5), ..., [2000,10000), [10000, +inf)
type WinBuckets struct {
	mu           sync.Mutex
	winBucket    []int
	winBucketStr []string
	winBucketMap map[int]*WinBucket
}

type WinBucket struct {
	maxCheckWin int
	lutMaxWin   int
	lut         []int
	justOverIdx int
	maxIdx      int
}

// Buckets 全域共用；不同 BetUnit 的查表在第一次使用時建立。
var Buckets *WinBuckets = &WinBuckets{
	winBucket:    []int{0, 1, 2, 5, 10, 20, 50, 100, 300, 500, 1000, 2000, 10000},
	winBucketStr: []string{"[0,0]", "(0,1)", "[1,2)", "[2,5)", "[5,10)", "[10,20)", "[20,50)", "[50,100)", "[100,300)", "[300,500)", "[500,1000)", "[1000,2000)", "[2000,10000)", "[10000,+inf)"},
	winBucketMap: make(map[int]*WinBucket),
}

func (b *WinBuckets) WinBucketStr() []string {
	return b.winBucketStr
}

// GetBucketByBetUnit 可被多個模擬 goroutine 同時呼叫
func (b *WinBuckets) GetBucketByBetUnit(bu int) *WinBucket {
	bu = max(bu, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	if wb, ok := b.winBucketMap[bu]; ok {
		return wb
	}
	wb := b.build(bu)
	b.winBucketMap[bu] = wb
	return wb
}

func (b *WinBuckets) build(bu int) *WinBucket {
	// 查表只建到 maxLutMult 倍
	maxLut := bu * maxLutMult
	edges := make([]int, len(b.winBucket))
	for i, v := range b.winBucket {
		edges[i] = bu * v
	}

	lut := make([]int, maxLut)
	idx, last := 1, len(edges)-1
	for win := 1; win < maxLut; win++ {
		for idx < last && win >= edges[idx] {
			idx++
		}
		lut[win] = idx
	}

	return &WinBucket{
		maxCheckWin: bu * maxMult,
		lutMaxWin:   maxLut,
		lut:         lut,
		justOverIdx: last,
		maxIdx:      len(edges),
	}
}

func (wb *WinBucket) Index(win int) int {
	if win <= 0 {
		return 0
	}
	if win >= wb.lutMaxWin {
		if win >= wb.maxCheckWin {
			return wb.maxIdx
		}
		return wb.justOverIdx
	}
	return wb.lut[win]
}
