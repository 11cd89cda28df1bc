// Package fixture defines types exercised by both type model backends and the generators
package fixture

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type (
	Hooker interface {
		Hooked(v int) int
		NotHooked(v int) int
	}

	Echo struct{}

	Item struct {
		ID   int
		Name string
	}

	List[T any] interface {
		Add(item T)
		Get(index int) (T, error)
		Len() int
	}

	Repo[T any, K comparable] interface {
		Get(ctx context.Context, key K) (T, error)
		Put(ctx context.Context, key K, value T) error
	}

	Number interface {
		~int | ~int64 | ~float64
	}

	Summer[T Number] interface {
		Sum(values ...T) T
	}

	Handler func(name string, count int) (string, error)

	Mapper[T any] func(value T) T

	Store interface {
		Load(dest *Item) error
		Names(prefix string, names ...string) []string
		Close()
	}

	Greeter interface {
		Greet(name string) string
		Farewell(name string) string
		Count() int
		Reset()
	}

	Person struct {
		greeted int
		Count   func() int
	}

	Sealed interface {
		Open() int
		close()
		reset()
	}

	Identifier interface {
		ID() int
	}

	Record struct{}

	Legacy struct{}

	Tagged struct {
		ID func() int
	}

	Collision interface {
		Do(p int, invocation string, proxy bool, fixture []string) int
	}

	Calculator struct {
		Base int
	}

	Extended struct {
		*Calculator
		io.Reader
		Label string
		note  string
	}

	counter struct{}
)

func (Echo) Hooked(v int) int { return v }

func (Echo) NotHooked(v int) int { return v }

func (p *Person) Greet(name string) string {
	p.greeted++
	return "hello " + name
}

func (p *Person) Farewell(who string) string { return "bye " + who }

func (r Record) Id() int { return 1 }

func (r Record) ID() int { return 2 }

func (Legacy) Id() int { return 1 }

func (c *Calculator) Add(a, b int) int { return c.Base + a + b }

func (c Calculator) Value() int { return c.Base }

func (c *Calculator) Describe(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

func (c *Calculator) Scale(factor *int) {
	*factor = *factor * c.Base
}

func (c *Calculator) reset() { c.Base = 0 }

func (c counter) Next() int { return 1 }

// NewCalculator creates calculator
func NewCalculator(base int) *Calculator {
	return &Calculator{Base: base}
}

// Upper is used as Handler target
func Upper(name string, count int) (string, error) {
	return strings.Repeat(strings.ToUpper(name), count), nil
}
