package model

import "strings"

// Triple is one flattened (subject, predicate, object) unit produced from a semantic graph.
// Predicate is a dot-joined composite: "frame.role1.role2" for frames, "type.role" otherwise.
type Triple struct {
	SubjID      string `json:"subj_id"`
	SubjText    string `json:"subj_text"`
	SubjType    string `json:"subj_type"`
	Predicate   string `json:"predicate"`
	PredicateID string `json:"predicate_id"`
	ObjID       string `json:"obj_id"`
	ObjText     string `json:"obj_text"`
	ObjType     string `json:"obj_type"`
	UnknownVar  string `json:"amr_unknown_var"`

	// Filled in by entity linking before scoring.
	Text           string `json:"text,omitempty"`
	SubjURI        string `json:"subj_uri,omitempty"`
	SubjTypeURI    string `json:"subj_type_uri,omitempty"`
	ObjURI         string `json:"obj_uri,omitempty"`
	ObjTypeURI     string `json:"obj_type_uri,omitempty"`
	AnswerDatatype string `json:"answer_datatype,omitempty"`
}

func (t Triple) RelSplit() []string {
	return strings.Split(t.Predicate, ".")
}

// Inverse swaps the subject and object sides and permutes the predicate role tokens:
// [frame, a, b] becomes [frame, b, a] and [a, b] becomes [b, a].
func (t Triple) Inverse() Triple {
	inv := t
	inv.SubjID, inv.ObjID = t.ObjID, t.SubjID
	inv.SubjText, inv.ObjText = t.ObjText, t.SubjText
	inv.SubjType, inv.ObjType = t.ObjType, t.SubjType
	inv.SubjURI, inv.ObjURI = t.ObjURI, t.SubjURI
	inv.SubjTypeURI, inv.ObjTypeURI = t.ObjTypeURI, t.SubjTypeURI

	split := t.RelSplit()
	switch len(split) {
	case 3:
		inv.Predicate = strings.Join([]string{split[0], split[2], split[1]}, ".")
	case 2:
		inv.Predicate = strings.Join([]string{split[1], split[0]}, ".")
	}
	return inv
}

// SubjectIsUnknown reports whether the subject is the queried answer node.
func (t Triple) SubjectIsUnknown() bool {
	return t.UnknownVar != "" && t.SubjID == t.UnknownVar
}

func (t Triple) ObjectIsUnknown() bool {
	return t.UnknownVar != "" && t.ObjID == t.UnknownVar
}
