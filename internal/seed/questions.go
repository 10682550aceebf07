// Package seed holds the built-in question fixtures used to populate an
// empty bank. The content is a data fixture, not program logic; replace or
// extend it freely through the store's insert path.
package seed

import "knowledge-quiz/internal/domain"

// Questions returns the built-in fixture set, a representative sample of
// each question kind.
func Questions() []domain.Question {
	return []domain.Question{
		{
			Text:    "Which routing protocol uses the Dijkstra algorithm?",
			Kind:    domain.Single,
			Options: []string{"RIP", "BGP", "EIGRP", "OSPF"},
			Correct: []string{"OSPF"},
			Hint:    "It is a link-state protocol.",
		},
		{
			Text:    "Which sorting algorithm has a time complexity of O(n log n)?",
			Kind:    domain.Single,
			Options: []string{"BubbleSort", "SelectionSort", "InsertionSort", "QuickSort"},
			Correct: []string{"QuickSort"},
		},
		{
			Text:    "Which port is default for HTTPS?",
			Kind:    domain.Single,
			Options: []string{"80", "21", "22", "443"},
			Correct: []string{"443"},
		},
		{
			Text:    "Which data structure operates on a LIFO principle?",
			Kind:    domain.Single,
			Options: []string{"Queue", "List", "Tree", "Stack"},
			Correct: []string{"Stack"},
		},
		{
			Text:    "Which protocols operate at the transport layer?",
			Kind:    domain.Multiple,
			Options: []string{"TCP", "UDP", "IP", "HTTP"},
			Correct: []string{"TCP", "UDP"},
		},
		{
			Text:    "Which HTTP methods are idempotent?",
			Kind:    domain.Multiple,
			Options: []string{"GET", "PUT", "DELETE", "POST"},
			Correct: []string{"GET", "PUT", "DELETE"},
		},
		{
			Text:    "Which elements are part of ACID principles in databases?",
			Kind:    domain.Multiple,
			Options: []string{"Atomicity", "Consistency", "Isolation", "Durability", "Flexibility"},
			Correct: []string{"Atomicity", "Consistency", "Isolation", "Durability"},
			Hint:    "Four of the five qualify.",
		},
		{
			Text:    "Which databases are NoSQL?",
			Kind:    domain.Multiple,
			Options: []string{"MongoDB", "Cassandra", "Redis", "PostgreSQL"},
			Correct: []string{"MongoDB", "Cassandra", "Redis"},
		},
		{
			Text:    "Explain the concept of a transaction.",
			Kind:    domain.Open,
			Correct: []string{"A transaction is a set of operations on a database, which must be executed in their entirety or not at all. Transactions satisfy the ACID principles: Atomicity, Consistency, Isolation, Durability."},
		},
		{
			Text:    "Provide examples of routing protocols.",
			Kind:    domain.Open,
			Correct: []string{"Routing protocols determine the route of packets in a network, for example RIP, OSPF and BGP. OSPF uses the Dijkstra algorithm, BGP routes between autonomous systems."},
		},
		{
			Text:    "Discuss the OSI model.",
			Kind:    domain.Open,
			Correct: []string{"The OSI model is a seven-layer structure describing communication in networks: physical, data link, network, transport, session, presentation and application layers."},
		},
	}
}
