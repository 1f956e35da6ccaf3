package transfer

import "sync"

// payloadPool reuses '0'-filled buffers. Buffers are never written after creation,
// so any pooled buffer is valid content for a shorter payload.
var payloadPool = sync.Pool{
	New: func() interface{} {
		return newPayload(4096)
	},
}

func newPayload(size int) []byte {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = '0'
	}
	return buf
}

func getPayload(size int) []byte {
	buf := payloadPool.Get().([]byte)
	if cap(buf) < size {
		return newPayload(size)
	}
	return buf[:size]
}

func putPayload(buf []byte) {
	payloadPool.Put(buf[:cap(buf)])
}
