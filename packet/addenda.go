package packet

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/proto"

	"github.com/packetstream/client-go/status"
)

// InsertStringAddendum attaches a string side-channel value under name.
// Returns AlreadyExists without mutating the header if name is already
// taken.
func InsertStringAddendum(p *Packet, name string, value string) *status.Status {
	return insertAddendum(p, name, Addendum{IsProtobuf: false, StringValue: value})
}

// InsertProtobufAddendum attaches a protobuf-encoded side-channel value
// under name. Returns AlreadyExists without mutating the header if name is
// already taken.
func InsertProtobufAddendum(p *Packet, name string, m proto.Message) *status.Status {
	bytes, err := proto.Marshal(m)
	if err != nil {
		return status.Newf(codes.InvalidArgument, "marshal addendum %q: %v", name, err)
	}
	fullName := string(m.ProtoReflect().Descriptor().FullName())
	return insertAddendum(p, name, Addendum{
		IsProtobuf:       true,
		ProtobufFullName: fullName,
		ProtobufBytes:    bytes,
	})
}

func insertAddendum(p *Packet, name string, a Addendum) *status.Status {
	if name == "" {
		return status.New(codes.InvalidArgument, "addendum name must not be empty")
	}
	if p.Header.Addenda == nil {
		p.Header.Addenda = make(map[string]Addendum)
	}
	if _, exists := p.Header.Addenda[name]; exists {
		return status.Newf(codes.AlreadyExists, "addendum %q already exists", name)
	}
	p.Header.Addenda[name] = a
	return status.OK()
}

// GetStringAddendum retrieves a string addendum by name.
func GetStringAddendum(p Packet, name string) (string, *status.Status) {
	a, st := lookupAddendum(p, name)
	if !st.OK() {
		return "", st
	}
	if a.IsProtobuf {
		return "", status.Newf(codes.InvalidArgument, "addendum %q is protobuf, not string", name)
	}
	return a.StringValue, status.OK()
}

// GetProtobufAddendum retrieves a protobuf addendum by name and unmarshals
// it into m.
func GetProtobufAddendum(p Packet, name string, m proto.Message) *status.Status {
	a, st := lookupAddendum(p, name)
	if !st.OK() {
		return st
	}
	if !a.IsProtobuf {
		return status.Newf(codes.InvalidArgument, "addendum %q is string, not protobuf", name)
	}
	wantName := string(m.ProtoReflect().Descriptor().FullName())
	if a.ProtobufFullName != wantName {
		return status.Newf(codes.InvalidArgument, "addendum %q is %s, not %s", name, a.ProtobufFullName, wantName)
	}
	if err := proto.Unmarshal(a.ProtobufBytes, m); err != nil {
		return status.Newf(codes.InvalidArgument, "unmarshal addendum %q: %v", name, err)
	}
	return status.OK()
}

func lookupAddendum(p Packet, name string) (Addendum, *status.Status) {
	if p.Header.Addenda == nil {
		return Addendum{}, status.Newf(codes.NotFound, "addendum %q not found", name)
	}
	a, ok := p.Header.Addenda[name]
	if !ok {
		return Addendum{}, status.Newf(codes.NotFound, "addendum %q not found", name)
	}
	return a, status.OK()
}

// DeleteAddendum removes an addendum by name. It is a no-op if absent.
func DeleteAddendum(p *Packet, name string) {
	if p.Header.Addenda == nil {
		return
	}
	delete(p.Header.Addenda, name)
}
