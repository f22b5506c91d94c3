package rules

// AccessFlags mirrors the JVM access_flags bitmask. Rule modifiers OR into a
// required-set mask, and their "!"-prefixed forms OR into a required-unset mask.
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSynchronized AccessFlags = 0x0020
	AccVolatile     AccessFlags = 0x0040
	AccBridge       AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
)

func (af AccessFlags) Has(flag AccessFlags) bool {
	return af&flag != 0
}

// memberModifiers maps modifier keywords usable in front of a member
// declaration to their flag bits.
var memberModifiers = map[string]AccessFlags{
	"public":       AccPublic,
	"private":      AccPrivate,
	"protected":    AccProtected,
	"static":       AccStatic,
	"final":        AccFinal,
	"synchronized": AccSynchronized,
	"volatile":     AccVolatile,
	"bridge":       AccBridge,
	"transient":    AccTransient,
	"varargs":      AccVarargs,
	"native":       AccNative,
	"abstract":     AccAbstract,
	"strictfp":     AccStrict,
	"synthetic":    AccSynthetic,
}

// classModifiers maps modifier keywords usable in front of the
// class/interface/enum keyword of a class specification.
var classModifiers = map[string]AccessFlags{
	"public":    AccPublic,
	"final":     AccFinal,
	"abstract":  AccAbstract,
	"synthetic": AccSynthetic,
}
