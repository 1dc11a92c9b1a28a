package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Alia5/NetPad/wire"
)

// Variants lists the frame variants both ends can agree on.
type Variants struct{}

func (c *Variants) Run() error {
	return listVariants(os.Stdout)
}

func listVariants(w io.Writer) error {
	for _, n := range wire.Names() {
		v, err := wire.Lookup(n)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, v.String()); err != nil {
			return err
		}
	}
	return nil
}
