package domain

// Zero overwrites every given byte slice with zeros to clear key material from memory.
func Zero(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
	}
}
