package services

// Progress receives the media download progress of one item at a time
type Progress interface {
	// Begin starts reporting for the named item
	Begin(name string)
	// Report is called with an integer percentage whenever it changes
	Report(percent int)
	// Done ends reporting for the current item, successful or not
	Done()
}

// NoopProgress ignores all progress updates
type NoopProgress struct{}

func (NoopProgress) Begin(string) {}
func (NoopProgress) Report(int) {}
func (NoopProgress) Done() {}
