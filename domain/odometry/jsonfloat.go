package odometry

import (
	"encoding/json"
	"fmt"
	"math"
)

// JSONFloat is a float64 that survives JSON encoding when it is not finite.
// NaN and the infinities are written as the strings "NaN", "+Inf" and "-Inf"
// and read back the same way. Finite values are plain JSON numbers.
type JSONFloat float64

func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

func (f *JSONFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch s {
		case "NaN":
			*f = JSONFloat(math.NaN())
		case "+Inf", "Inf":
			*f = JSONFloat(math.Inf(1))
		case "-Inf":
			*f = JSONFloat(math.Inf(-1))
		default:
			return fmt.Errorf("invalid float value %q", s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = JSONFloat(v)
	return nil
}

type vector3JSON struct {
	X JSONFloat `json:"x"`
	Y JSONFloat `json:"y"`
	Z JSONFloat `json:"z"`
}

func (v Vector3) MarshalJSON() ([]byte, error) {
	return json.Marshal(vector3JSON{JSONFloat(v.X), JSONFloat(v.Y), JSONFloat(v.Z)})
}

func (v *Vector3) UnmarshalJSON(data []byte) error {
	aux := vector3JSON{JSONFloat(v.X), JSONFloat(v.Y), JSONFloat(v.Z)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*v = Vector3{X: float64(aux.X), Y: float64(aux.Y), Z: float64(aux.Z)}
	return nil
}

type quaternionJSON struct {
	X JSONFloat `json:"x"`
	Y JSONFloat `json:"y"`
	Z JSONFloat `json:"z"`
	W JSONFloat `json:"w"`
}

func (q Quaternion) MarshalJSON() ([]byte, error) {
	return json.Marshal(quaternionJSON{JSONFloat(q.X), JSONFloat(q.Y), JSONFloat(q.Z), JSONFloat(q.W)})
}

func (q *Quaternion) UnmarshalJSON(data []byte) error {
	aux := quaternionJSON{JSONFloat(q.X), JSONFloat(q.Y), JSONFloat(q.Z), JSONFloat(q.W)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*q = Quaternion{X: float64(aux.X), Y: float64(aux.Y), Z: float64(aux.Z), W: float64(aux.W)}
	return nil
}

type commandJSON struct {
	Linear  JSONFloat `json:"linear"`
	Angular JSONFloat `json:"angular"`
}

func (c Command) MarshalJSON() ([]byte, error) {
	return json.Marshal(commandJSON{JSONFloat(c.Linear), JSONFloat(c.Angular)})
}

func (c *Command) UnmarshalJSON(data []byte) error {
	aux := commandJSON{JSONFloat(c.Linear), JSONFloat(c.Angular)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Command{Linear: float64(aux.Linear), Angular: float64(aux.Angular)}
	return nil
}

type wheelsJSON struct {
	Left  JSONFloat `json:"left"`
	Right JSONFloat `json:"right"`
}

func (w WheelVelocityPair) MarshalJSON() ([]byte, error) {
	return json.Marshal(wheelsJSON{JSONFloat(w.Left), JSONFloat(w.Right)})
}

func (w *WheelVelocityPair) UnmarshalJSON(data []byte) error {
	aux := wheelsJSON{JSONFloat(w.Left), JSONFloat(w.Right)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*w = WheelVelocityPair{Left: float64(aux.Left), Right: float64(aux.Right)}
	return nil
}
