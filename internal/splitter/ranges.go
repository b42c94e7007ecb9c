package splitter

// RangesFromStarts converts ordered section starts into contiguous,
// non-overlapping ranges covering [0,total): the end of section k is the
// start of section k+1, and the last section ends at total. Pages before the
// first detected start form an unlabeled leading section so the cover stays
// complete.
func RangesFromStarts(total int, starts []Start) []Range {
	if total <= 0 || len(starts) == 0 {
		return nil
	}
	if starts[0].Page > 0 {
		starts = append([]Start{{Page: 0}}, starts...)
	}
	ranges := make([]Range, 0, len(starts))
	for k, s := range starts {
		end := total
		if k+1 < len(starts) {
			end = starts[k+1].Page
		}
		ranges = append(ranges, Range{Start: s.Page, End: end, Label: s.Label})
	}
	return ranges
}

// FixedStride partitions total pages into consecutive blocks of n pages; the
// last block may be shorter. No labels are ever produced. n below 1 is
// treated as 1.
func FixedStride(total, n int) []Range {
	if total <= 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	ranges := make([]Range, 0, (total+n-1)/n)
	for i := 0; i < total; i += n {
		end := i + n
		if end > total {
			end = total
		}
		ranges = append(ranges, Range{Start: i, End: end})
	}
	return ranges
}
