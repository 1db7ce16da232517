package component

// GameTimer counts up, or down from Duration when CountDown is set. Once
// Ended the displayed time is frozen.
type GameTimer struct {
	Duration  float64
	Elapsed   float64
	CountDown bool
	Running   bool
	Ended     bool
}

var GameTimerComponent = NewComponent[GameTimer]()
