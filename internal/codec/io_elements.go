package codec

import "fmt"

// readCounted lee n elementos con read, en orden. Si minSize > 0 verifica de
// antemano que queden n*minSize bytes, así un contador corrupto falla sin
// reservar memoria ni leer de más.
func readCounted[T any](c *Cursor, step string, n, minSize int, read func(*Cursor) (T, error)) ([]T, error) {
	if minSize > 0 && n*minSize > c.Remaining() {
		return nil, &DecodeError{Step: step, Offset: c.Offset(),
			Err: fmt.Errorf("%w: %d items need %d bytes, have %d", ErrTruncated, n, n*minSize, c.Remaining())}
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := read(c)
		if err != nil {
			return nil, stepErr(fmt.Sprintf("%s[%d]", step, i), c, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeIOGroup lee un grupo de IOs de ancho w: count(1) + count*(id(1)+valor(w)).
func decodeIOGroup(c *Cursor, w Width) ([]IOValue, error) {
	step := fmt.Sprintf("io_%db", w)
	n, err := c.U8()
	if err != nil {
		return nil, stepErr(step+".count", c, err)
	}
	return readCounted(c, step, int(n), 1+int(w), func(c *Cursor) (IOValue, error) {
		id, err := c.U8()
		if err != nil {
			return IOValue{}, stepErr("id", c, err)
		}
		v, err := c.uintN(int(w))
		if err != nil {
			return IOValue{}, stepErr("value", c, err)
		}
		return IOValue{ID: id, Width: w, Value: v}, nil
	})
}

func decodeIOElements(c *Cursor) (IOElementSet, error) {
	var set IOElementSet
	var err error

	if set.EventIOID, err = c.U8(); err != nil {
		return IOElementSet{}, stepErr("event_io_id", c, err)
	}
	if set.TotalIO, err = c.U8(); err != nil {
		return IOElementSet{}, stepErr("total_io", c, err)
	}

	// leer 1B,2B,4B,8B
	groups := [...]*[]IOValue{&set.OneByte, &set.TwoByte, &set.FourByte, &set.EightByte}
	for i, w := range Widths {
		if *groups[i], err = decodeIOGroup(c, w); err != nil {
			return IOElementSet{}, err
		}
	}
	return set, nil
}
