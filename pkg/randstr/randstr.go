package randstr

import (
	"crypto/rand"
)

type Generator struct {
	letterBytes []byte
}

func New(letterBytes []byte) *Generator {
	return &Generator{letterBytes: letterBytes}
}

func (g Generator) GenerateRandomString(length int) string {
	b := make([]byte, length)
	// crypto/rand.Read never returns a partial read without an error
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}

	for i, v := range b {
		b[i] = g.letterBytes[int(v)%len(g.letterBytes)]
	}

	return string(b)
}
