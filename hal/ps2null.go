package hal

// nullPS2 is a port with nothing attached.
type nullPS2 struct{}

func (nullPS2) Read(p []byte) int    { return 0 }
func (nullPS2) LastError() PS2Error  { return PS2ErrNone }
func (nullPS2) Overflows() uint32    { return 0 }
func (nullPS2) Write(cmd byte) error { return ErrNotImplemented }
