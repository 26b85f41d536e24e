package protocol

type MessageType uint8

const (
	MessageTypeKeyOffer MessageType = 1
	MessageTypeEnvelope MessageType = 2
	MessageTypeAck      MessageType = 3
	MessageTypeClose    MessageType = 4
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeKeyOffer:
		return "KEY_OFFER"
	case MessageTypeEnvelope:
		return "ENVELOPE"
	case MessageTypeAck:
		return "ACK"
	case MessageTypeClose:
		return "CLOSE"
	default:
		return "UNKNOWN"
	}
}

func (t MessageType) valid() bool {
	return t >= MessageTypeKeyOffer && t <= MessageTypeClose
}
