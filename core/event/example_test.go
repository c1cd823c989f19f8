package event_test

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/eventcentral/core/event"
	"github.com/dmitrymomot/eventcentral/core/logger"
)

func Example() {
	c := event.New(event.WithLogger(logger.Discard()))

	tok := event.Subscribe(c, func(_ context.Context, e UserCreated) error {
		fmt.Println("welcome", e.Email)
		return nil
	})
	defer tok.Close()

	_ = event.Publish(context.Background(), c, UserCreated{UserID: "42", Email: "ann@example.com"})
	// Output: welcome ann@example.com
}

func ExampleWithCategory() {
	c := event.New(event.WithLogger(logger.Discard()))

	event.Subscribe(c, func(_ context.Context, n int) error {
		fmt.Println("got", n)
		return nil
	}, event.WithCategory("TestEvent"))

	_ = event.Publish(context.Background(), c, 5, event.WithCategory("TestEvent"))
	_ = event.Publish(context.Background(), c, 6) // category "int": nobody listens
	// Output: got 5
}

func ExampleCentral_SetMainThread() {
	c := event.New(event.WithLogger(logger.Discard()))
	event.Subscribe(c, func(context.Context, string) error {
		fmt.Println("redraw")
		return nil
	}, event.OnMainThread())

	err := event.Publish(context.Background(), c, "changed")
	fmt.Println(err)

	var queue []func()
	c.SetMainThread(func(fn func()) error {
		queue = append(queue, fn)
		return nil
	})
	_ = event.Publish(context.Background(), c, "changed")
	for _, fn := range queue {
		fn()
	}
	// Output:
	// event: main thread dispatcher not configured: category "string"
	// redraw
}
