package protocol

// HandshakeLen is the exact size of the handshake frame a client must send
// before anything else.
const HandshakeLen = 8

// handshakeMagic identifies a compatible client.
var handshakeMagic = [HandshakeLen]byte{'M', 'M', 'O', 'W', 'O', 'R', 'L', 'D'}

// PlayerHandshake is the first frame of a connection.
type PlayerHandshake struct {
	Bytes [HandshakeLen]byte
}

// NewPlayerHandshake returns the handshake a well-behaved client sends.
func NewPlayerHandshake() PlayerHandshake {
	return PlayerHandshake{Bytes: handshakeMagic}
}

// ParseHandshake reads a handshake from a raw frame payload. Short or long
// frames yield an invalid handshake rather than an error; validity is the
// only question.
func ParseHandshake(payload []byte) PlayerHandshake {
	var h PlayerHandshake
	if len(payload) == HandshakeLen {
		copy(h.Bytes[:], payload)
	}
	return h
}

// IsValid reports whether the handshake bytes equal the magic.
func (h PlayerHandshake) IsValid() bool {
	return h.Bytes == handshakeMagic
}
