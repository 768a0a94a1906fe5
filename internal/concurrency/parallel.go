// Package concurrency reparte trabajo independiente entre un número acotado
// de goroutines.
package concurrency

import (
	"context"
	"fmt"
	"sync"
)

const defaultWorkers = 10

// ParallelOptions configura el procesamiento paralelo.
type ParallelOptions struct {
	// MaxWorkers es el número máximo de goroutines; <= 0 usa el valor por defecto.
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{MaxWorkers: defaultWorkers}
}

func (o ParallelOptions) workers(n int) int {
	w := o.MaxWorkers
	if w <= 0 {
		w = defaultWorkers
	}
	if w > n {
		w = n
	}
	return w
}

// ItemError asocia un error con la posición del elemento que lo produjo.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string { return fmt.Sprintf("item %d: %v", e.Index, e.Err) }

func (e *ItemError) Unwrap() error { return e.Err }

// ProcessParallel aplica itemFunc a cada elemento y devuelve los resultados en
// el orden de entrada. Los errores son *ItemError ordenados por índice; los
// elementos que no llegaron a ejecutarse por cancelación llevan ctx.Err().
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}
	errs := make([]error, len(items))

	run(len(items), opts.workers(len(items)), func(i int) {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			return
		}
		results[i], errs[i] = itemFunc(ctx, i, items[i])
	})
	return results, collect(errs)
}

// ForEach es ProcessParallel sin resultados: útil cuando solo importan los
// efectos (por ejemplo escribir archivos).
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) error,
) []error {
	_, errs := ProcessParallel(ctx, items, opts, func(ctx context.Context, index int, item T) (struct{}, error) {
		return struct{}{}, itemFunc(ctx, index, item)
	})
	return errs
}

// run reparte los índices 0..n-1 entre workers goroutines y espera a que todas
// terminen. Cada índice se procesa exactamente una vez.
func run(n, workers int, fn func(i int)) {
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

func collect(errs []error) []error {
	var out []error
	for i, err := range errs {
		if err != nil {
			out = append(out, &ItemError{Index: i, Err: err})
		}
	}
	return out
}
