package driver

// The graph mirror stores every knowledge-graph term as a :Resource node keyed by its full IRI
// and every statement as a :REL edge carrying the full predicate IRI. Class membership is a :REL
// edge with the rdf:type IRI.

const RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

var IndexQueries = []string{
	"CREATE INDEX ON :Resource(uri);",
	"CREATE EDGE INDEX ON :REL(iri);",
}

const (
	SaveStatementQuery = `
		UNWIND $rows AS row
		MERGE (s:Resource {uri: row.subject})
		MERGE (o:Resource {uri: row.object})
		MERGE (s)-[:REL {iri: row.predicate}]->(o)
	`

	CountStatementsQuery = `
		MATCH ()-[r:REL]->()
		RETURN count(r) AS statements
	`

	// Property listings; every query returns a "prop" column.

	PropertiesBetweenQuery = `
		MATCH (s:Resource {uri: $subj})-[r:REL]->(o:Resource {uri: $obj})
		RETURN DISTINCT r.iri AS prop
	`

	PropertiesOfSubjectQuery = `
		MATCH (s:Resource {uri: $subj})-[r:REL]->(o:Resource)
		RETURN DISTINCT r.iri AS prop
	`

	PropertiesOfObjectQuery = `
		MATCH (s:Resource)-[r:REL]->(o:Resource {uri: $obj})
		RETURN DISTINCT r.iri AS prop
	`

	// values of the property may be the class itself or an instance of it
	PropertiesOfSubjectTypedObjectQuery = `
		MATCH (s:Resource {uri: $subj})-[r:REL]->(o:Resource)
		WHERE o.uri = $objType OR exists((o)-[:REL {iri: $rdfType}]->(:Resource {uri: $objType}))
		RETURN DISTINCT r.iri AS prop
	`

	PropertiesOfObjectTypedSubjectQuery = `
		MATCH (s:Resource)-[r:REL]->(o:Resource {uri: $obj})
		WHERE exists((s)-[:REL {iri: $rdfType}]->(:Resource {uri: $subjType}))
		RETURN DISTINCT r.iri AS prop
	`

	PropertiesBetweenTypesQuery = `
		MATCH (s:Resource)-[r:REL]->(o:Resource)
		WHERE exists((s)-[:REL {iri: $rdfType}]->(:Resource {uri: $subjType}))
		  AND exists((o)-[:REL {iri: $rdfType}]->(:Resource {uri: $objType}))
		RETURN DISTINCT r.iri AS prop
	`
)
