package gql

const transactionsByIds = `query($ids: [ID!], $first: Int, $after: String) {
  transactions(ids: $ids, first: $first, after: $after) {
    pageInfo { hasNextPage }
    edges {
      cursor
      node {
        id
        block { id height timestamp }
      }
    }
  }
}`

const contractsForWallet = `query($owners: [String!], $sources: [String!], $first: Int, $after: String) {
  transactions(
    owners: $owners
    tags: [{ name: "Contract-Src", values: $sources }]
    sort: HEIGHT_DESC
    first: $first
    after: $after
  ) {
    pageInfo { hasNextPage }
    edges {
      cursor
      node {
        id
        owner { address }
        tags { name value }
        block { id height timestamp }
      }
    }
  }
}`

func withCursor(vars map[string]any, cursor string) map[string]any {
	if cursor != "" {
		vars["after"] = cursor
	}
	return vars
}

// Mined heights of the given transactions
func TransactionsByIds(ids []string, pageSize int) func(cursor string) Query {
	return func(cursor string) Query {
		return Query{
			Query: transactionsByIds,
			Variables: withCursor(map[string]any{
				"ids":   ids,
				"first": pageSize,
			}, cursor),
		}
	}
}

// Contracts deployed by the owner from one of the given sources
func ContractsForWallet(owner string, sourceIds []string, pageSize int) func(cursor string) Query {
	return func(cursor string) Query {
		return Query{
			Query: contractsForWallet,
			Variables: withCursor(map[string]any{
				"owners":  []string{owner},
				"sources": sourceIds,
				"first":   pageSize,
			}, cursor),
		}
	}
}
