// Package fmxxx nombra los IOs permanentes que reportan los equipos
// Teltonika FMxxx en Codec 8.
package fmxxx

import (
	"fmt"

	"codec8-svr/internal/codec"
)

// ID es el identificador de un IO en Codec 8 (1 byte).
type ID = uint8

func table(w codec.Width) map[ID]string {
	switch w {
	case codec.Width1:
		return oneByte
	case codec.Width2:
		return twoByte
	case codec.Width4:
		return fourByte
	case codec.Width8:
		return eightByte
	}
	return nil
}

// Name devuelve el nombre conocido de un IO o "io_<id>" si no está en la
// tabla de su ancho.
func Name(v codec.IOValue) string {
	if name, ok := table(v.Width)[v.ID]; ok {
		return name
	}
	return fmt.Sprintf("io_%d", v.ID)
}

// Known indica si id tiene nombre en la tabla del ancho w.
func Known(w codec.Width, id ID) bool {
	_, ok := table(w)[id]
	return ok
}
