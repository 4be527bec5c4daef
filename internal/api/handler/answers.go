package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
)

var errAnswersNotObject = errors.New("answers must be an object of question id to option index")

// answerSheet decodes {"<question_id>": <option_index>, ...} keeping the
// order in which the pairs appear in the request body, so the first invalid
// answer reported is the first one the client sent.
type answerSheet []domain.Answer

func (a *answerSheet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*a = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errAnswersNotObject
	}

	sheet := answerSheet{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		id, err := strconv.ParseUint(key, 10, 0)
		if err != nil {
			return fmt.Errorf("question id %q: %w", key, errAnswersNotObject)
		}

		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("question %d: option index must be an integer", id)
		}
		idx, err := strconv.Atoi(n.String())
		if err != nil {
			return fmt.Errorf("question %d: option index must be an integer", id)
		}
		sheet = append(sheet, domain.Answer{QuestionID: uint(id), OptionIndex: idx})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*a = sheet
	return nil
}
