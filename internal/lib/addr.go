package lib

// AddrShort returns a short representation of the address, used in logs
func AddrShort(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:5] + ".." + addr[len(addr)-3:]
}
