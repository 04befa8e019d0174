package fileupload

// PickerHooks is a Picker whose behaviour is supplied by the host.
type PickerHooks struct {
	OnOpen  func()
	OnReset func()
}

func (p PickerHooks) Open() {
	if p.OnOpen != nil {
		p.OnOpen()
	}
}

func (p PickerHooks) Reset() {
	if p.OnReset != nil {
		p.OnReset()
	}
}
