package transition

import "runtime"

// goYield is the busy-wait step of SleepUntil's final spin: it hands the
// processor to other goroutines once per iteration.
func goYield() {
	runtime.Gosched()
}
