package graph

// TypeDefs is the declared graph schema. The schema-driven query engine that
// serves the catalog types is an external collaborator; this process only
// resolves the two credential mutations. The password hash is deliberately
// absent from the User type — no read path exposes it.
const TypeDefs = `
type User {
    id: ID!
    handle: String!
    email: String!
    isAdmin: Boolean
}

type Product {
    id: ID!
    brand: String!
    category: String!
    countInStock: Int!
    description: String!
    image: String!
    name: String!
    numberOfReviews: Int!
    price: Float!
    rating: Float!
    slug: String!
    creator: User
}

type Mutation {
    signUp(handle: String!, email: String!, password: String!): String!
    signIn(handle: String!, password: String!): String!
}
`
