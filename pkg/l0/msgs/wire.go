package msgs

import (
	"github.com/golang/protobuf/proto"
)

// ServoCommand is published when the servo is commanded to a new angle.
type ServoCommand struct {
	Angle int32 `protobuf:"varint,1,opt,name=angle,proto3" json:"angle,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *ServoCommand) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoCommand) Reset() { *m = ServoCommand{} }

// String implements proto.Message.
func (m *ServoCommand) String() string { return proto.CompactTextString(m) }

// LEDFrame is published when a frame is presented.
type LEDFrame struct {
	Brightness uint32 `protobuf:"varint,1,opt,name=brightness,proto3" json:"brightness,omitempty"`
	// Pixels holds R, G, B triples, row-major.
	Pixels []byte `protobuf:"bytes,2,opt,name=pixels,proto3" json:"pixels,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *LEDFrame) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LEDFrame) Reset() { *m = LEDFrame{} }

// String implements proto.Message.
func (m *LEDFrame) String() string { return proto.CompactTextString(m) }

// Encode marshals a wire message.
func Encode(m proto.Message) ([]byte, error) {
	return proto.Marshal(m)
}

// Decode unmarshals a wire message.
func Decode(data []byte, m proto.Message) error {
	return proto.Unmarshal(data, m)
}
