package registers

// Field describes one named bit range inside a 32-bit register value.
// Fields of one register never overlap.
type Field struct {
	Offset uint8 // bit position of the least significant bit
	Width  uint8 // number of bits
}

// Mask returns the field's bit mask positioned at its offset.
func (f Field) Mask() uint32 {
	return ((1 << f.Width) - 1) << f.Offset
}

// Extract returns the field value contained in raw.
func (f Field) Extract(raw uint32) uint32 {
	return (raw & f.Mask()) >> f.Offset
}

// Insert returns raw with the field's bit range replaced by val. Values wider
// than the field are truncated to the low Width bits, matching what the
// hardware does. Bits outside the field are left untouched.
func (f Field) Insert(raw, val uint32) uint32 {
	return (raw &^ f.Mask()) | (val << f.Offset & f.Mask())
}

// Layout maps field names to their descriptors for one register.
type Layout map[string]Field

// Encode packs the given field values into a raw register value. Unnamed
// fields are zero. Field names not present in the layout are ignored.
func (l Layout) Encode(values map[string]uint32) uint32 {
	var raw uint32
	for name, f := range l {
		if v, ok := values[name]; ok {
			raw = f.Insert(raw, v)
		}
	}
	return raw
}

// Decode unpacks every field of the layout out of a raw register value.
func (l Layout) Decode(raw uint32) map[string]uint32 {
	values := make(map[string]uint32, len(l))
	for name, f := range l {
		values[name] = f.Extract(raw)
	}
	return values
}

// GCONF flag positions.
var GConfFields = Layout{
	"recalibrate":         {0, 1},
	"faststandstill":      {1, 1},
	"en_pwm_mode":         {2, 1},
	"multistep_filt":      {3, 1},
	"shaft":               {4, 1},
	"diag0_error":         {5, 1},
	"diag0_otpw":          {6, 1},
	"diag0_stall":         {7, 1},
	"diag1_stall":         {8, 1},
	"diag1_index":         {9, 1},
	"diag1_onstate":       {10, 1},
	"diag1_steps_skipped": {11, 1},
	"diag0_int_pushpull":  {12, 1},
	"diag1_pushpull":      {13, 1},
	"small_hysteresis":    {14, 1},
	"stop_enable":         {15, 1},
	"direct_mode":         {16, 1},
}

// IHOLD_IRUN current control fields.
var IHoldIRunFields = Layout{
	"ihold":      {0, 5},
	"irun":       {8, 5},
	"iholddelay": {16, 4},
}

// CHOPCONF chopper configuration fields (subset this driver manipulates).
var ChopConfFields = Layout{
	"toff":  {0, 4},
	"hstrt": {4, 3},
	"hend":  {7, 4},
	"tbl":   {11, 2},
	"chm":   {15, 1},
	"mres":  {24, 4},
}

// COOLCONF CoolStep and StallGuard2 fields.
var CoolConfFields = Layout{
	"sg_thrs":   {0, 8},
	"cool_thrs": {8, 8},
}

// PWMCONF StealthChop PWM fields.
var PwmConfFields = Layout{
	"pwm_freq": {0, 4},
}

// Layouts indexes the per-register field tables by register address.
var Layouts = map[Register]Layout{
	GConf:     GConfFields,
	IHoldIRun: IHoldIRunFields,
	ChopConf:  ChopConfFields,
	CoolConf:  CoolConfFields,
	PwmConf:   PwmConfFields,
}

// Shorthand descriptors for the fields the driver itself reads and writes.
var (
	IHold      = IHoldIRunFields["ihold"]
	IRun       = IHoldIRunFields["irun"]
	IHoldDelay = IHoldIRunFields["iholddelay"]
	TOff       = ChopConfFields["toff"]
	MRes       = ChopConfFields["mres"]
	EnPwmMode  = GConfFields["en_pwm_mode"]
	SGThrs     = CoolConfFields["sg_thrs"]
)
