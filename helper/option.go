package helper

// Option is a functional option configuring a T.
type Option[T any] func(configure *T)

func Configure[T any, O Option[T]](input T, opt ...O) T {
	for _, o := range opt {
		if o != nil {
			o(&input)
		}
	}
	return input
}

func ConfigurePtr[T any, O Option[T]](input *T, opt ...O) *T {
	for _, o := range opt {
		if o != nil {
			o(input)
		}
	}
	return input
}
