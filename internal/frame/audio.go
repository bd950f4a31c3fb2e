package frame

// Track - фрагмент аудиофайла: Offset и Duration в секундах от начала файла.
type Track struct {
	Path     string
	Offset   float64
	Duration float64
}

// AudioSpan - фрагмент аудио, размещенный в момент At времени родительского источника.
type AudioSpan struct {
	Track
	At float64
}

// End возвращает момент окончания фрагмента во времени родителя.
func (s AudioSpan) End() float64 { return s.At + s.Duration }

// Audible - источник кадров со звуком.
type Audible interface {
	AudioSpans() []AudioSpan
}

// Spans возвращает аудио источника или nil, если источник беззвучный.
func Spans(src Source) []AudioSpan {
	a, ok := src.(Audible)
	if !ok {
		return nil
	}
	return a.AudioSpans()
}

// Clip обрезает фрагмент окном [from, to) и сдвигает его на shift.
// Возвращает false, если после обрезки ничего не осталось.
func (s AudioSpan) Clip(from, to, shift float64) (AudioSpan, bool) {
	start, end := s.At, s.End()
	if start < from {
		start = from
	}
	if end > to {
		end = to
	}
	if end <= start {
		return AudioSpan{}, false
	}
	out := s
	out.Offset += start - s.At
	out.Duration = end - start
	out.At = start + shift
	return out, true
}
