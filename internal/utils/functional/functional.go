package functional

func Map[T any, R any](items []T, f func(T) R) []R {
	result := make([]R, len(items))
	for i, v := range items {
		result[i] = f(v)
	}
	return result
}

// FlatMap maps each item to a slice and concatenates the results.
func FlatMap[T any, R any](items []T, f func(T) []R) []R {
	result := make([]R, 0, len(items))
	for _, v := range items {
		result = append(result, f(v)...)
	}
	return result
}
