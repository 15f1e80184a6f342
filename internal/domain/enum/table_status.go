package enum

import (
	"encoding/json"
	"strings"
)

// TableStatus represents the occupancy of a physical table
type TableStatus int

const (
	TableStatusAvailable TableStatus = 0
	TableStatusOccupied  TableStatus = 1
	TableStatusReserved  TableStatus = 2
)

func (s TableStatus) String() string {
	names := [...]string{"AVAILABLE", "OCCUPIED", "RESERVED"}
	if int(s) < 0 || int(s) >= len(names) {
		return "AVAILABLE"
	}
	return names[s]
}

func (s TableStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TableStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = TableStatus(i)
		return nil
	}
	switch strings.ToUpper(str) {
	case "OCCUPIED":
		*s = TableStatusOccupied
	case "RESERVED":
		*s = TableStatusReserved
	default:
		*s = TableStatusAvailable
	}
	return nil
}
