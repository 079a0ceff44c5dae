// Command pixelify renders images and GIF animations as block pixel art
// or as character art.
//
//	pixelify render photo.jpg -o out/photo.png --block-size 8 --strategy color
//	pixelify render cat.gif -o cat-ascii.gif --strategy char-color --block-size 12
//	pixelify chars cat.gif --block-size 8 --play --loop
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
