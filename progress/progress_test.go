package progress

import (
	"testing"

	"github.com/ruonli/rsure/tree"
)

func TestBarQuietIsNoop(t *testing.T) {
	var b *Bar
	b.Update(3, 1024)
	b.Done()

	b = &Bar{}
	b.Update(3, 1024)
	b.Done()
}

func TestBarUpdateAndDone(t *testing.T) {
	b := New("hashing", tree.Estimate{Files: 3, Bytes: 30})
	b.Update(1, 10)
	b.Update(2, 20)
	b.Update(3, 30)
	b.Done()
}
