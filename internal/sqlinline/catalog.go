package sqlinline

// Catalog queries take the quoted table name as the first format verb.

const QCatalogBounds = `--sql 3b8f1c52-6d0e-4a47-9c1b-7f2e5a9d0c41
select
  coalesce(max(id), 0)::bigint,
  count(*)::bigint
from %s;
`

// QCatalogPage also takes the joined where clause. $1 is the row limit;
// filter arguments start at $2.
const QCatalogPage = `--sql a41e7d09-2c5b-4f83-8e6a-0d9b3c7f5e12
select
  id,
  path,
  representative_ext,
  width,
  height,
  rotation
from %s
where %s
order by id desc
limit $1::int;
`
