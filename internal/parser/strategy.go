package parser

// strategy 一个独立的启发式尝试，命中时返回 (值, true)
type strategy[T any] func() (T, bool)

// firstMatch 按顺序执行策略，返回第一个命中的结果
func firstMatch[T any](strategies ...strategy[T]) (T, bool) {
	for _, s := range strategies {
		if v, ok := s(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// firstMatchOr 与 firstMatch 相同，全部未命中时返回默认值
func firstMatchOr[T any](def T, strategies ...strategy[T]) T {
	if v, ok := firstMatch(strategies...); ok {
		return v
	}
	return def
}
