package internal

// RunAll calls every fn in order. If some of them panic, the remaining ones
// still run and the first panic is raised again once all are done.
func RunAll(fns []func()) {
	var first any
	panicked := false

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil && !panicked {
					first = r
					panicked = true
				}
			}()

			fn()
		}()
	}

	if panicked {
		panic(first)
	}
}
