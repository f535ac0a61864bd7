package board

import (
	"bytes"
	"fmt"
	"strconv"
	"text/tabwriter"
)

// String prints our waters next to the foreign waters.
func (b *Board) String() string {
	if b.width == 0 || b.height == 0 {
		return "BOARD HAS SIZE ZERO\n"
	}

	var buffer bytes.Buffer
	tabWriter := tabwriter.NewWriter(&buffer, 2, 0, 1, ' ', 0)

	fmt.Fprint(tabWriter, "\t")
	for x := 0; x < b.width; x++ {
		fmt.Fprint(tabWriter, strconv.Itoa(x)+"\t")
	}
	fmt.Fprint(tabWriter, "|\t")
	for x := 0; x < b.width; x++ {
		fmt.Fprint(tabWriter, strconv.Itoa(x)+"\t")
	}
	fmt.Fprint(tabWriter, "\n")

	for y := 0; y < b.height; y++ {
		fmt.Fprint(tabWriter, strconv.Itoa(y)+"\t")
		for x := 0; x < b.width; x++ {
			fmt.Fprint(tabWriter, b.ours[y][x].String()+"\t")
		}
		fmt.Fprint(tabWriter, "|\t")
		for x := 0; x < b.width; x++ {
			fmt.Fprint(tabWriter, b.theirs[y][x].String()+"\t")
		}
		fmt.Fprint(tabWriter, "\n")
	}
	tabWriter.Flush()
	return buffer.String()
}
