package test

import (
	"math/rand"
	"sync"
	"time"
)

const alphanumerics = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var source = struct {
	sync.Mutex
	*rand.Rand
}{Rand: rand.New(rand.NewSource(time.Now().UnixNano()))}

func randInt(n int) int {
	source.Lock()
	defer source.Unlock()
	return source.Intn(n)
}

// RandomASCIIString produces an alphanumeric string whose length falls
// in [minLen, maxLen]. Non-positive bounds collapse to 1.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	n := minLen + randInt(maxLen-minLen+1)
	out := make([]byte, n)
	for i := range out {
		out[i] = alphanumerics[randInt(len(alphanumerics))]
	}
	return string(out)
}
